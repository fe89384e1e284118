package main

import (
	"os"

	"github.com/hmmgo/hmmgo/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	rootCmd.AddCommand(cmd.NewSearchCommand())
	rootCmd.AddCommand(cmd.NewScanCommand())
	rootCmd.AddCommand(cmd.NewAlignCommand())
	rootCmd.AddCommand(cmd.NewPressCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
