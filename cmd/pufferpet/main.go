package main

import (
	"github.com/alecthomas/kong"

	"github.com/RICHELLysS/PufferPet/cmd/pufferpet/commands"
	"github.com/RICHELLysS/PufferPet/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("pufferpet"),
		kong.Description("Desktop-pet state and reward engine."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
