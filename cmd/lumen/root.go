// Command lumen is the CLI front end for the Lumen interpreter: a `run`
// subcommand for executing scripts and a `shell` subcommand for an
// interactive REPL. Grounded on CWBudde-go-dws's cmd/dwscript/cmd package
// (root command + persistent flags + subcommand registration via init),
// generalized from its Pascal-flavored flag set down to the ones this
// language's pipeline actually has (--verbosity instead of --dump-ast/
// --trace/--type-check, since Lumen has no optional type checker or unit
// system to toggle).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "lumen",
	Short:         "Lumen: a small dynamically-typed scripting language",
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func colorEnabled() bool {
	return !noColor && !color.NoColor
}
