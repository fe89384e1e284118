package cmd

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/spf13/cobra"

	"github.com/hmmgo/hmmgo"
	"github.com/hmmgo/hmmgo/pipeline"
	"github.com/hmmgo/hmmgo/seq"
)

const (
	evalueFlag   = "evalue"
	bitscoreFlag = "bitscore"
	dbsizeFlag   = "dbsize"
	longFlag     = "long"
	seqQueryFlag = "seq-queries"
)

// NewSearchCommand returns the command that searches queries against a
// sequence database.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <queries> <targets.fasta>",
		Short: "Search profile or sequence queries against a sequence database",
		Long: `Search profile or sequence queries against a sequence database.

Queries are a profile database by default; with --seq-queries they are a
FASTA file and a one-off profile is built per sequence. Hits are written to
stdout as tab-separated values, one line per hit, grouped by query in query
order.`,
		Args: cobra.ExactArgs(2),
		RunE: runSearch,
	}

	cmd.Flags().Float64P(evalueFlag, "E", 10, "report hits with E-value at most this")
	cmd.Flags().Float64P(bitscoreFlag, "T", 0, "report hits with bit score at least this (overrides -E)")
	cmd.Flags().Float64P(dbsizeFlag, "Z", 0, "effective database size for E-values (0 = number of targets)")
	cmd.Flags().Bool(longFlag, false, "score long targets window by window")
	cmd.Flags().Bool(seqQueryFlag, false, "queries are sequences in FASTA format")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts, err := commonOptions(cmd)
	if err != nil {
		return err
	}
	pipeOpt, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	opts = append(opts, pipeOpt)

	alphabet, err := flagAlphabet(cmd)
	if err != nil {
		return err
	}
	dbs, err := newDatabases(cmd)
	if err != nil {
		return err
	}
	targets, err := dbs.openSequences(args[1], alphabet)
	if err != nil {
		return err
	}
	ctx := dbs.ctx

	var results iter.Seq2[*pipeline.TopHits, error]
	seqQueries, err := cmd.Flags().GetBool(seqQueryFlag)
	if err != nil {
		return err
	}
	long, err := cmd.Flags().GetBool(longFlag)
	if err != nil {
		return err
	}
	switch {
	case seqQueries:
		queries, err := dbs.openSequences(args[0], alphabet)
		if err != nil {
			return err
		}
		qs := make([]*seq.Sequence, 0, queries.Len())
		for i := 0; i < queries.Len(); i++ {
			qs = append(qs, queries.At(i))
		}
		results, err = hmmgo.SearchSequences(ctx, qs, targets, opts...)
		if err != nil {
			return err
		}
	default:
		models, err := dbs.openModels(args[0])
		if err != nil {
			return err
		}
		opts = append(opts, hmmgo.WithSizeHint(len(models)))
		if long {
			results, err = hmmgo.SearchLongTargets(ctx, hmmgo.ModelQueries(models...), targets, opts...)
		} else {
			results, err = hmmgo.Search(ctx, hmmgo.ModelQueries(models...), targets, opts...)
		}
		if err != nil {
			return err
		}
	}

	return writeHits(cmd.OutOrStdout(), results)
}

func flagAlphabet(cmd *cobra.Command) (*seq.Alphabet, error) {
	flag := cmd.Flags().Lookup(alphabetFlag)
	if flag == nil {
		return nil, fmt.Errorf("missing --%s flag", alphabetFlag)
	}
	v, ok := flag.Value.(*alphabetValue)
	if !ok {
		return nil, fmt.Errorf("--%s is not an alphabet flag", alphabetFlag)
	}
	return v.alphabet, nil
}

func pipelineOptions(cmd *cobra.Command) (hmmgo.Option, error) {
	evalue, err := cmd.Flags().GetFloat64(evalueFlag)
	if err != nil {
		return nil, err
	}
	bitscore, err := cmd.Flags().GetFloat64(bitscoreFlag)
	if err != nil {
		return nil, err
	}
	dbsize, err := cmd.Flags().GetFloat64(dbsizeFlag)
	if err != nil {
		return nil, err
	}
	return hmmgo.WithPipelineOptions(func(o *pipeline.Options) {
		o.E = evalue
		o.T = bitscore
		o.Z = dbsize
	}), nil
}

// writeHits drains a result stream as TSV, one line per hit.
func writeHits(w io.Writer, results iter.Seq2[*pipeline.TopHits, error]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "query\ttarget\tevalue\tscore\tstart\tend")
	for th, err := range results {
		if err != nil {
			_ = bw.Flush()
			return err
		}
		for _, h := range th.Hits() {
			fmt.Fprintf(bw, "%s\t%s\t%.3g\t%.1f\t%d\t%d\n",
				th.Query, h.Name, h.Evalue, h.Score, h.Start, h.End)
		}
	}
	return bw.Flush()
}
