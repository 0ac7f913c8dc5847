package commands

import (
	"fmt"

	"github.com/esologic/folio/internal/config"
	"github.com/esologic/folio/internal/portfolio"
)

// CheckCmd loads and validates the content tree without producing output.
// Every collected content error is reported, not just the first.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	loader := portfolio.NewLoader(cfg.Content.Directory)
	p, err := loader.Load()
	if err != nil {
		// The aggregate error prints one line per problem.
		fmt.Println("Content check failed")
		return err
	}

	fmt.Printf("Content OK: %d section(s), %d entr(ies), %d visible\n",
		len(p.Sections), len(p.Entries()), len(p.VisibleEntries()))
	return nil
}
