// Command tickscript parses, runs and tests tickscript programs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tickscript/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tickscript:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
