package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Lumen script",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline source instead of reading a file")
	runCmd.Flags().IntVar(&verbosity, "verbosity", 0, "diagnostic verbosity: 1=AST, 2=+distance table, 3=+token stream")
}

func runRun(_ *cobra.Command, args []string) error {
	var src, file string
	switch {
	case evalExpr != "":
		src, file = evalExpr, "<eval>"
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		src, file = string(content), args[0]
	default:
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		src, file = string(content), "<stdin>"
	}
	return run(file, src, os.Stdout, os.Stdout)
}
