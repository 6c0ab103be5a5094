package commands_test

import (
	"flag"
	"io"

	"todoctl/internal/commands"
)

func newFlagSet(cmd commands.Command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	return fs
}
