package fasta

import (
	"bytes"
	"context"

	"github.com/hmmgo/hmmgo/blobstore"
	"github.com/hmmgo/hmmgo/internal/zio"
	"github.com/hmmgo/hmmgo/resource"
	"github.com/hmmgo/hmmgo/seq"
)

// FetchBlock reads a FASTA database out of a blob store into a sequence
// block, under the controller's loader, memory and IO limits. The fetched
// bytes are released once the block is built; a nil controller fetches
// without limits.
func FetchBlock(ctx context.Context, s blobstore.Store, name string, alphabet *seq.Alphabet, rc *resource.Controller) (*seq.SequenceBlock, error) {
	data, err := blobstore.Fetch(ctx, s, name, rc)
	if err != nil {
		return nil, err
	}
	defer rc.ReleaseMemory(int64(len(data)))

	zr, err := zio.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return ReadBlock(zr, alphabet)
}
