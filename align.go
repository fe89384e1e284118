package hmmgo

import (
	"context"
	"fmt"
	"time"

	"github.com/hmmgo/hmmgo/pipeline"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// Align aligns sequences against a model and returns the resulting multiple
// sequence alignment. Each sequence contributes one model-width row: its
// best-scoring ungapped span placed at the model columns it matched, gaps
// everywhere else. Rows appear in input order.
//
// Unlike the search modes this runs on the calling goroutine; aligning is a
// single pass over the sequences, anchored to one model.
func Align(ctx context.Context, m *profile.Model, seqs []*seq.Sequence, optFns ...Option) (*seq.MSA, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	opts := applyOptions(optFns)

	o := profile.Optimize(m)
	p := pipeline.New(m.Alphabet(), opts.pipeline...)

	opts.logger.LogRunStart(ctx, "align", 1)
	start := time.Now()

	names := make([]string, 0, len(seqs))
	rows := make([]string, 0, len(seqs))
	for _, s := range seqs {
		if err := context.Cause(ctx); err != nil {
			return nil, err
		}
		qstart := time.Now()
		a, err := p.AlignSequence(o, s)
		elapsed := time.Since(qstart)
		opts.metrics.RecordQuery(elapsed, 0, err)
		opts.logger.LogQuery(ctx, s.Name, 0, elapsed, err)
		if err != nil {
			return nil, fmt.Errorf("align %q: %w", s.Name, err)
		}
		names = append(names, a.Name)
		rows = append(rows, a.Row)
		p.Reset()
	}

	opts.metrics.RecordRun(len(seqs), time.Since(start))
	opts.logger.LogRunEnd(ctx, "align", len(seqs), time.Since(start))

	msa, err := seq.NewMSA(m.Alphabet(), m.Name, names, rows)
	if err != nil {
		return nil, err
	}
	msa.Accession = m.Accession
	return msa, nil
}
