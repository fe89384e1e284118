package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmmgo/hmmgo/hmmfile"
)

// NewPressCommand returns the command that converts a text profile
// database into a pressed binary one.
func NewPressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "press <profiles> <out.hgp>",
		Short: "Press a text profile database into a fast binary form",
		Long: `Press a text profile database into a fast binary form.

Pressed databases load without parsing and are the preferred input for
scan. Compressed text input (gzip, zstd, lz4) is handled transparently.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := hmmfile.PressFile(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pressed %d profiles into %s\n", n, args[1])
			return nil
		},
	}
}
