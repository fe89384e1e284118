package hmmfile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmgo/hmmgo/blobstore"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/resource"
)

func TestFetchModels(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testModel(t, "motif1", "ACGT")))
	require.NoError(t, store.Put(ctx, "db.hmm", buf.Bytes()))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	models, err := FetchModels(ctx, store, "db.hmm", rc)
	require.NoError(t, err)

	require.Len(t, models, 1)
	assert.Equal(t, "motif1", models[0].Name)
	assert.Zero(t, rc.MemoryUsage(), "fetched bytes are released after parsing")
}

func TestFetchPressed(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	require.NoError(t, Press(&buf, []*profile.Model{testModel(t, "motif1", "ACGT")}))
	require.NoError(t, store.Put(ctx, "db.hgp", buf.Bytes()))

	block, err := FetchPressed(ctx, store, "db.hgp", nil)
	require.NoError(t, err)

	require.Equal(t, 1, block.Len())
	assert.Equal(t, "motif1", block.At(0).Name)
}

func TestFetchModelsMissing(t *testing.T) {
	_, err := FetchModels(context.Background(), blobstore.NewMemoryStore(), "nope.hmm", nil)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
