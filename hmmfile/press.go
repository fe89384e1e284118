package hmmfile

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// ErrNoModels is returned when pressing an empty database.
var ErrNoModels = errors.New("hmmfile: no profiles to press")

const pressedVersion = 1

// pressedFile is the on-disk form of a pressed database: gob-encoded and
// zstd-compressed. Profiles are stored as raw match rows and re-optimized
// on load, so the scoring layout can change without a format bump.
type pressedFile struct {
	Version  int
	Alphabet string
	Profiles []pressedProfile
}

type pressedProfile struct {
	Name        string
	Accession   string
	Description string
	Match       [][]float32
}

// Press writes profiles as a pressed binary database. All profiles must
// share one alphabet.
func Press(w io.Writer, models []*profile.Model) error {
	if len(models) == 0 {
		return ErrNoModels
	}
	alphabet := models[0].Alphabet()

	pf := pressedFile{
		Version:  pressedVersion,
		Alphabet: alphabet.Name(),
		Profiles: make([]pressedProfile, 0, len(models)),
	}
	for _, m := range models {
		if err := seq.CheckAlphabet(alphabet, m.Alphabet()); err != nil {
			return fmt.Errorf("hmmfile: profile %q: %w", m.Name, err)
		}
		match := make([][]float32, 0, m.M())
		for i := 0; i < m.M(); i++ {
			match = append(match, m.MatchScores(i))
		}
		pf.Profiles = append(pf.Profiles, pressedProfile{
			Name:        m.Name,
			Accession:   m.Accession,
			Description: m.Description,
			Match:       match,
		})
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(zw).Encode(pf); err != nil {
		_ = zw.Close()
		return fmt.Errorf("hmmfile: press: %w", err)
	}
	return zw.Close()
}

// ReadPressed loads a pressed database into a ready-to-scan profile block.
func ReadPressed(r io.Reader) (*profile.Block, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("hmmfile: not a pressed database: %w", err)
	}
	defer zr.Close()

	var pf pressedFile
	if err := gob.NewDecoder(zr).Decode(&pf); err != nil {
		return nil, fmt.Errorf("hmmfile: pressed database: %w", err)
	}
	if pf.Version != pressedVersion {
		return nil, fmt.Errorf("hmmfile: unsupported pressed version %d", pf.Version)
	}
	alphabet, err := seq.ByName(pf.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("hmmfile: pressed database: %w", err)
	}

	block := profile.NewBlock(alphabet)
	for _, p := range pf.Profiles {
		model, err := profile.NewModel(alphabet, p.Name, p.Match)
		if err != nil {
			return nil, fmt.Errorf("hmmfile: pressed profile %q: %w", p.Name, err)
		}
		model.Accession = p.Accession
		model.Description = p.Description
		if err := block.Append(profile.Optimize(model)); err != nil {
			return nil, err
		}
	}
	return block, nil
}

// PressFile presses a text profile database into a binary one on disk.
func PressFile(in, out string) (int, error) {
	models, err := Open(in)
	if err != nil {
		return 0, err
	}
	fh, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	if err := Press(fh, models); err != nil {
		_ = fh.Close()
		return 0, err
	}
	return len(models), fh.Close()
}

// OpenPressed loads a pressed database from disk.
func OpenPressed(path string) (*profile.Block, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadPressed(fh)
}
