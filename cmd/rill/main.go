package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "rill",
		Short: "A toolchain for the Rill language",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLexCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
