package hmmfile

import (
	"bytes"
	"context"

	"github.com/hmmgo/hmmgo/blobstore"
	"github.com/hmmgo/hmmgo/internal/zio"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/resource"
)

// FetchModels reads a text profile database out of a blob store, under the
// controller's loader, memory and IO limits. The fetched bytes are released
// once the models are parsed; a nil controller fetches without limits.
func FetchModels(ctx context.Context, s blobstore.Store, name string, rc *resource.Controller) ([]*profile.Model, error) {
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
	return ReadAll(zr)
}

// FetchPressed is FetchModels for pressed databases: the blob is loaded
// under the controller's limits and decoded into a ready-to-scan block.
func FetchPressed(ctx context.Context, s blobstore.Store, name string, rc *resource.Controller) (*profile.Block, error) {
	data, err := blobstore.Fetch(ctx, s, name, rc)
	if err != nil {
		return nil, err
	}
	defer rc.ReleaseMemory(int64(len(data)))
	return ReadPressed(bytes.NewReader(data))
}
