package portfolio

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display transforms turn the lowercase tag sets into their presentation
// forms. Acronyms that title-casing mangles get fixed up afterwards.

var titleCaser = cases.Title(language.English)

var acronymFixups = [][2]string{
	{"3d", "3D"},
	{"Cad", "CAD"},
	{"Led", "LED"},
	{"Pcb", "PCB"},
}

func displayTag(tag string) string {
	out := titleCaser.String(tag)
	for _, f := range acronymFixups {
		if strings.Contains(out, f[0]) {
			out = strings.ReplaceAll(out, f[0], f[1])
		}
	}
	return out
}

// DisplayDomain returns the title-cased domain category.
func (e *Entry) DisplayDomain() string { return displayTag(e.Domain) }

// DisplayTeamSize returns the title-cased team size.
func (e *Entry) DisplayTeamSize() string { return displayTag(e.TeamSize) }

// DisplayMediums returns the medium tags title-cased and sorted for stable
// presentation.
func (e *Entry) DisplayMediums() []string {
	out := make([]string, len(e.Mediums))
	for i, m := range e.Mediums {
		out[i] = displayTag(m)
	}
	sort.Strings(out)
	return out
}

// CompletionDateVerbose renders the completion date the way listing pages
// show it, e.g. "November of 2021".
func (e *Entry) CompletionDateVerbose() string {
	return e.CompletionDate.Format("January") + " of " + e.CompletionDate.Format("2006")
}

// CompletionYear renders just the year.
func (e *Entry) CompletionYear() string {
	return e.CompletionDate.Format("2006")
}
