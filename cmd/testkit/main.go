// Command testkit validates and inspects parametrization tables.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/testkit/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "testkit:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
