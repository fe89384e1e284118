package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hmmgo/hmmgo"
	"github.com/hmmgo/hmmgo/seq"
)

// NewScanCommand returns the command that scans sequences against a
// profile database.
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <queries.fasta> <profiledb>",
		Short: "Scan sequence queries against a profile database",
		Long: `Scan sequence queries against a profile database.

The profile database may be a text database or a pressed one (see press);
pressed databases are detected by their .hgp extension. Hits are written to
stdout as tab-separated values.`,
		Args: cobra.ExactArgs(2),
		RunE: runScan,
	}

	cmd.Flags().Float64P(evalueFlag, "E", 10, "report hits with E-value at most this")
	cmd.Flags().Float64P(bitscoreFlag, "T", 0, "report hits with bit score at least this (overrides -E)")
	cmd.Flags().Float64P(dbsizeFlag, "Z", 0, "effective database size for E-values (0 = number of profiles)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	opts, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	pipeOpt, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts, pipeOpt)

	dbs, err := newDatabases(cmd)
	if err != nil {
		return err
	}
	block, err := dbs.openProfiles(args[1])
	if err != nil {
		return err
	}

	queries, err := dbs.openSequences(args[0], block.Alphabet())
	if err != nil {
		return err
	}
	qs := make([]*seq.Sequence, 0, queries.Len())
	for i := 0; i < queries.Len(); i++ {
		qs = append(qs, queries.At(i))
	}

	results, err := hmmgo.Scan(dbs.ctx, qs, block, opts...)
	if err != nil {
		return err
	}
	return writeHits(cmd.OutOrStdout(), results)
}
