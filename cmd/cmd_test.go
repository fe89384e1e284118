package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmgo/hmmgo/hmmfile"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

func writeTestProfileDB(t *testing.T, path string) {
	t.Helper()
	match := make([][]float32, 0, 4)
	for _, r := range "ACGT" {
		row := make([]float32, seq.DNA().Size())
		for i := range row {
			row[i] = -4
		}
		idx, ok := seq.DNA().Index(byte(r))
		require.True(t, ok)
		row[idx] = 1
		match = append(match, row)
	}
	m, err := profile.NewModel(seq.DNA(), "motif1", match)
	require.NoError(t, err)

	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, hmmfile.Write(fh, m))
	require.NoError(t, fh.Close())
}

func writeTestTargets(t *testing.T, path string) {
	t.Helper()
	data := ">t0 has the motif\nTTTTACGTTTTT\n>t1\nCCCCCCCC\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	root.AddCommand(NewSearchCommand())
	root.AddCommand(NewScanCommand())
	root.AddCommand(NewAlignCommand())
	root.AddCommand(NewPressCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	faPath := filepath.Join(dir, "targets.fasta")
	writeTestProfileDB(t, hmmPath)
	writeTestTargets(t, faPath)

	out, err := execute(t, "search", "--alphabet", "dna", "-T", "3.5", hmmPath, faPath)
	require.NoError(t, err)
	assert.Contains(t, out, "query\ttarget")
	assert.Contains(t, out, "motif1\tt0")
	assert.NotContains(t, out, "\tt1\t")
}

func TestSearchCommandSequenceQueries(t *testing.T) {
	dir := t.TempDir()
	qPath := filepath.Join(dir, "queries.fasta")
	faPath := filepath.Join(dir, "targets.fasta")
	require.NoError(t, os.WriteFile(qPath, []byte(">q0\nACGT\n"), 0o644))
	writeTestTargets(t, faPath)

	out, err := execute(t, "search", "--alphabet", "dna", "--seq-queries", "-E", "0.5", qPath, faPath)
	require.NoError(t, err)
	assert.Contains(t, out, "q0\tt0")
}

func TestPressAndScanCommands(t *testing.T) {
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	pressedPath := filepath.Join(dir, "db.hgp")
	qPath := filepath.Join(dir, "queries.fasta")
	writeTestProfileDB(t, hmmPath)
	require.NoError(t, os.WriteFile(qPath, []byte(">q0\nTTACGTTT\n"), 0o644))

	out, err := execute(t, "press", hmmPath, pressedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "pressed 1 profiles")

	out, err = execute(t, "scan", "--alphabet", "dna", "-T", "3.5", qPath, pressedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "q0\tmotif1")
}

func TestAlignCommand(t *testing.T) {
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	faPath := filepath.Join(dir, "seqs.fasta")
	writeTestProfileDB(t, hmmPath)
	require.NoError(t, os.WriteFile(faPath, []byte(">s0\nTTACGTTT\n>s1\nGT\n"), 0o644))

	out, err := execute(t, "align", "--alphabet", "dna", hmmPath, faPath)
	require.NoError(t, err)
	assert.Contains(t, out, ">s0\nACGT\n")
	assert.Contains(t, out, ">s1\n--GT\n")
}

// TestSearchCommandResourceLimits: with fetch limits set, local databases
// are read through the blob store and resource controller instead of
// directly; the hits must come out the same.
func TestSearchCommandResourceLimits(t *testing.T) {
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	faPath := filepath.Join(dir, "targets.fasta")
	writeTestProfileDB(t, hmmPath)
	writeTestTargets(t, faPath)

	plain, err := execute(t, "search", "--alphabet", "dna", "-T", "3.5", hmmPath, faPath)
	require.NoError(t, err)

	limited, err := execute(t, "search", "--alphabet", "dna", "-T", "3.5",
		"--mem-limit", "1048576", "--io-limit", "1048576", hmmPath, faPath)
	require.NoError(t, err)
	assert.Equal(t, plain, limited)
}

func TestSearchCommandS3NeedsEndpoint(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	writeTestProfileDB(t, hmmPath)

	_, err := execute(t, "search", "--alphabet", "dna", hmmPath, "s3://dbs/targets.fasta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no S3 endpoint")
}

func TestSearchCommandBadS3Path(t *testing.T) {
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	writeTestProfileDB(t, hmmPath)

	_, err := execute(t, "search", "--alphabet", "dna", "--s3-endpoint", "localhost:9000", hmmPath, "s3://bucketonly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want s3://bucket/key")
}

func TestRootUnknownAlphabet(t *testing.T) {
	_, err := execute(t, "search", "--alphabet", "klingon", "a.hmm", "b.fasta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown alphabet")
}

func TestSearchCommandMissingFile(t *testing.T) {
	_, err := execute(t, "search", "nope.hmm", "nope.fasta")
	require.Error(t, err)
}

func TestRootUnknownLogLevel(t *testing.T) {
	dir := t.TempDir()
	hmmPath := filepath.Join(dir, "db.hmm")
	faPath := filepath.Join(dir, "targets.fasta")
	writeTestProfileDB(t, hmmPath)
	writeTestTargets(t, faPath)

	_, err := execute(t, "search", "--log-level", "loud", hmmPath, faPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}
