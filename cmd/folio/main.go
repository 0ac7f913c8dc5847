package main

import (
	"github.com/alecthomas/kong"

	"github.com/esologic/folio/cmd/folio/commands"
	"github.com/esologic/folio/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("folio"),
		kong.Description("Build a portfolio static site from a YAML content tree"),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
