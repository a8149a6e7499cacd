package main

import (
	"errors"
	"os"

	"github.com/erraggy/openapix/cmd/openapix/commands"
	"github.com/erraggy/openapix/internal/cliutil"
)

func main() {
	if err := commands.Execute(); err != nil {
		var ee *commands.ExitError
		if !errors.As(err, &ee) {
			cliutil.Writef(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(commands.ExitCode(err))
	}
}
