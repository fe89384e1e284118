package hmmfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

func testModel(t *testing.T, name, pattern string) *profile.Model {
	t.Helper()
	match := make([][]float32, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		row := make([]float32, seq.DNA().Size())
		for j := range row {
			row[j] = -4
		}
		r, ok := seq.DNA().Index(pattern[i])
		require.True(t, ok)
		row[r] = 1.5
		match = append(match, row)
	}
	m, err := profile.NewModel(seq.DNA(), name, match)
	require.NoError(t, err)
	return m
}

func TestWriteReadRoundTrip(t *testing.T) {
	m1 := testModel(t, "motif1", "ACGT")
	m1.Accession = "HG0001"
	m1.Description = "test motif one"
	m2 := testModel(t, "motif2", "GG")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m1, m2))

	models, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "motif1", models[0].Name)
	assert.Equal(t, "HG0001", models[0].Accession)
	assert.Equal(t, "test motif one", models[0].Description)
	assert.Equal(t, 4, models[0].M())
	assert.Equal(t, m1.MatchScores(0), models[0].MatchScores(0))

	assert.Equal(t, "motif2", models[1].Name)
	assert.Equal(t, 2, models[1].M())
}

func TestReadBadTag(t *testing.T) {
	_, err := ReadAll(strings.NewReader("NOPE\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format tag")
}

func TestReadTruncatedScores(t *testing.T) {
	input := "HMMGO1\nNAME x\nALPH dna\nLENG 2\n1 1 1 1\n//\n"
	_, err := ReadAll(strings.NewReader(input))
	require.Error(t, err)
}

func TestReadWrongScoreCount(t *testing.T) {
	input := "HMMGO1\nNAME x\nALPH dna\nLENG 1\n1 1 1\n//\n"
	_, err := ReadAll(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 4")
}

// TestReadHeaderOrderIndependent: header lines carry no ordering contract,
// so DESC or ACC appearing after LENG must still parse as header, not as
// score data.
func TestReadHeaderOrderIndependent(t *testing.T) {
	input := "HMMGO1\nLENG 1\nALPH dna\nACC HG0002\nNAME x\nDESC after the length line\n1 1 1 1\n//\n"
	models, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "x", models[0].Name)
	assert.Equal(t, "HG0002", models[0].Accession)
	assert.Equal(t, "after the length line", models[0].Description)
	assert.Equal(t, 1, models[0].M())
}

func TestReadIncompleteHeader(t *testing.T) {
	input := "HMMGO1\nNAME x\nLENG 1\n1 1 1 1\n//\n"
	_, err := ReadAll(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete header")
}

func TestReadEmptyInput(t *testing.T) {
	models, err := ReadAll(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestPressRoundTrip(t *testing.T) {
	m1 := testModel(t, "motif1", "ACGT")
	m1.Accession = "HG0001"
	m2 := testModel(t, "motif2", "GGGG")

	var buf bytes.Buffer
	require.NoError(t, Press(&buf, []*profile.Model{m1, m2}))

	block, err := ReadPressed(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, block.Len())
	assert.Equal(t, "motif1", block.At(0).Name)
	assert.Equal(t, "HG0001", block.At(0).Accession)
	assert.Equal(t, 4, block.At(0).M())
	assert.Equal(t, "motif2", block.At(1).Name)

	// Scores survive the round trip.
	r, _ := seq.DNA().Index('A')
	assert.Equal(t, float32(1.5), block.At(0).Score(0, r))
}

func TestPressEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Press(&buf, nil)
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestPressFileAndOpenPressed(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "db.hmm")
	pressedPath := filepath.Join(dir, "db.hgp")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testModel(t, "motif1", "ACGT")))
	require.NoError(t, os.WriteFile(textPath, buf.Bytes(), 0o644))

	n, err := PressFile(textPath, pressedPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	block, err := OpenPressed(pressedPath)
	require.NoError(t, err)
	require.Equal(t, 1, block.Len())
	assert.Equal(t, "motif1", block.At(0).Name)
}

func TestReadPressedGarbage(t *testing.T) {
	_, err := ReadPressed(strings.NewReader("not a pressed database"))
	require.Error(t, err)
}
