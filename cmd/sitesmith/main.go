package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitesmith/cmd/sitesmith/commands"
	"git.home.luguber.info/inful/sitesmith/internal/errors"
	"git.home.luguber.info/inful/sitesmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("sitesmith"),
		kong.Description("Static site builder: markdown content in, deployable site out."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{}, cli)
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
		adapter.HandleError(err)
	}
}
