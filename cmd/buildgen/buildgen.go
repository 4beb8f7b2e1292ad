package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/toastate/buildgen/internal/tlogger"
	"github.com/toastate/buildgen/pkg/config"
)

var CLI struct {
	Config  CommandConfig  `cmd:"" aliases:"bff" help:"Generates the machine specific config.bff."`
	Pathmap CommandPathmap `cmd:"" help:"Generates the data directory path mapping JSON."`
	Builds  CommandBuilds  `cmd:"" aliases:"b" help:"Generates BUILD files for the engine libraries."`
	Collect CommandCollect `cmd:"" help:"Lists files below a directory."`
	Watch   CommandWatch   `cmd:"" aliases:"w" help:"Regenerates BUILD files when sources change."`
	Serve   CommandServe   `cmd:"" aliases:"s" help:"Serves the data mounts to a running engine."`

	ConfigFile string `short:"c" help:"configuration file path (optional)"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.UsageOnError())

	tlogger.FatalIf(config.Init(CLI.ConfigFile))

	err := ctx.Run(ctx)
	if err != nil {
		tlogger.Fatal("msg", "Command failed", "command", ctx.Command(), "err", err)
	}
}

func applyVerbose(v int) {
	tlogger.ApplyVerbosity(v)
	if v > 1 {
		tlogger.Debug("msg", "Configuration", "config", tlogger.Dump(config.Config))
	}
}

// signalContext is cancelled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
