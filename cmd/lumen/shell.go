package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive Lumen REPL",
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().IntVar(&verbosity, "verbosity", 0, "diagnostic verbosity: 1=AST, 2=+distance table, 3=+token stream")
}

func runShell(_ *cobra.Command, _ []string) error {
	prompt := "> "
	if colorEnabled() {
		prompt = color.New(color.FgCyan, color.Bold).Sprint("lumen> ")
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stdout, "Lumen REPL. Type 'help' for help, 'exit' to quit.")
	for {
		fmt.Fprint(os.Stdout, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit":
			return nil
		case "help":
			fmt.Fprintln(os.Stdout, "Enter Lumen statements terminated by ';'. 'exit' quits, 'help' prints this message.")
			continue
		}

		// Each line gets its own fresh lexer/parser/resolver/interpreter
		// pass; no state carries over between lines.
		_ = run("<shell>", line, os.Stdout, os.Stdout)
	}
}
