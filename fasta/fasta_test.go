package fasta

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmgo/hmmgo/seq"
)

const sample = `>seq1 first sequence
ACGT
ACGT
>seq2
TTTT

>seq3 trailing description here
GGGG
`

func TestReadAll(t *testing.T) {
	records, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "seq1", records[0].Name)
	assert.Equal(t, "first sequence", records[0].Description)
	assert.Equal(t, "ACGTACGT", records[0].Text)

	assert.Equal(t, "seq2", records[1].Name)
	assert.Equal(t, "", records[1].Description)
	assert.Equal(t, "TTTT", records[1].Text)

	assert.Equal(t, "seq3", records[2].Name)
	assert.Equal(t, "trailing description here", records[2].Description)
}

func TestReadDataBeforeHeader(t *testing.T) {
	_, err := ReadAll(strings.NewReader("ACGT\n>late\nACGT\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before first header")
}

func TestReadEarlyTermination(t *testing.T) {
	count := 0
	for _, err := range Read(strings.NewReader(sample)) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestReadBlock(t *testing.T) {
	block, err := ReadBlock(strings.NewReader(sample), seq.DNA())
	require.NoError(t, err)
	require.Equal(t, 3, block.Len())
	assert.Equal(t, "seq1", block.At(0).Name)
	assert.Equal(t, "first sequence", block.At(0).Description)
	assert.Equal(t, 8, block.At(0).Len())
}

func TestReadBlockInvalidResidue(t *testing.T) {
	_, err := ReadBlock(strings.NewReader(">bad\nAC{T\n"), seq.DNA())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestOpenBlockPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.fasta")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	block, err := OpenBlock(path, seq.DNA())
	require.NoError(t, err)
	assert.Equal(t, 3, block.Len())
}

func TestOpenBlockGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.fasta.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	block, err := OpenBlock(path, seq.DNA())
	require.NoError(t, err)
	assert.Equal(t, 3, block.Len())
}

func TestWriteRoundTrip(t *testing.T) {
	records, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records...))

	again, err := ReadAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, again)
}
