package site

import (
	"time"

	"github.com/google/uuid"
)

// BuildReport summarizes one assembly run. Reports are logged and optionally
// persisted to the build history store; they are never written into the
// output tree so that repeated builds of unchanged content stay
// byte-identical.
type BuildReport struct {
	BuildID        string                   `json:"build_id"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	Outcome        string                   `json:"outcome"` // success|failed
	Sections       int                      `json:"sections"`
	Entries        int                      `json:"entries"`
	RenderedPages  int                      `json:"rendered_pages"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
}

func newBuildReport(sections, entries int) *BuildReport {
	return &BuildReport{
		BuildID:        uuid.NewString(),
		Start:          time.Now(),
		Sections:       sections,
		Entries:        entries,
		StageDurations: make(map[string]time.Duration),
	}
}

func (r *BuildReport) finish(outcome string) {
	r.End = time.Now()
	r.Outcome = outcome
}

// Duration returns the total wall-clock time of the build.
func (r *BuildReport) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
