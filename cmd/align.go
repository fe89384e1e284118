package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmmgo/hmmgo"
	"github.com/hmmgo/hmmgo/fasta"
	"github.com/hmmgo/hmmgo/seq"
)

// NewAlignCommand returns the command that aligns sequences against a
// profile.
func NewAlignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "align <profile> <seqs.fasta>",
		Short: "Align sequences against a profile",
		Long: `Align sequences against a profile.

The profile database must hold exactly one profile. Each sequence is placed
against the profile's columns and the resulting alignment is written to
stdout in FASTA form, one model-width row per sequence.`,
		Args: cobra.ExactArgs(2),
		RunE: runAlign,
	}
}

func runAlign(cmd *cobra.Command, args []string) error {
	opts, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	dbs, err := newDatabases(cmd)
	if err != nil {
		return err
	}

	models, err := dbs.openModels(args[0])
	if err != nil {
		return err
	}
	if len(models) != 1 {
		return fmt.Errorf("align needs exactly one profile, %s has %d", args[0], len(models))
	}
	model := models[0]

	queries, err := dbs.openSequences(args[1], model.Alphabet())
	if err != nil {
		return err
	}
	qs := make([]*seq.Sequence, 0, queries.Len())
	for i := 0; i < queries.Len(); i++ {
		qs = append(qs, queries.At(i))
	}

	msa, err := hmmgo.Align(dbs.ctx, model, qs, opts...)
	if err != nil {
		return err
	}

	records := make([]fasta.Record, 0, msa.Rows())
	for i := 0; i < msa.Rows(); i++ {
		records = append(records, fasta.Record{
			Name: msa.RowName(i),
			Text: msa.RowText(i),
		})
	}
	return fasta.Write(cmd.OutOrStdout(), records...)
}
