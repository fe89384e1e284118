// Package hmmfile reads and writes profile databases.
//
// The text format stores one profile per stanza: a few header lines, one
// line of match scores per column, and a // terminator. Press converts a
// text database into a compact binary form that loads without parsing.
// Compressed input (gzip, zstd, lz4) is handled transparently.
package hmmfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hmmgo/hmmgo/internal/zio"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

const formatTag = "HMMGO1"

// ReadAll parses every profile stanza in r.
func ReadAll(r io.Reader) ([]*profile.Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var models []*profile.Model
	for {
		model, err := readStanza(sc)
		if err == io.EOF {
			return models, nil
		}
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
}

// readStanza parses one profile. Returns io.EOF at a clean end of input.
func readStanza(sc *bufio.Scanner) (*profile.Model, error) {
	line, err := nextLine(sc)
	if err != nil {
		return nil, err
	}
	if line != formatTag {
		return nil, fmt.Errorf("hmmfile: bad format tag %q, want %q", line, formatTag)
	}

	// Header lines may come in any order; the first line that does not start
	// with a header keyword is the first score row.
	var (
		name, accession, description string
		alphabet                     *seq.Alphabet
		length                       = -1
		firstScore                   string
	)
header:
	for {
		line, err = nextLine(sc)
		if err != nil {
			return nil, fmt.Errorf("hmmfile: truncated header: %w", err)
		}
		key, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		switch key {
		case "NAME":
			name = value
		case "ACC":
			accession = value
		case "DESC":
			description = value
		case "ALPH":
			alphabet, err = seq.ByName(value)
			if err != nil {
				return nil, fmt.Errorf("hmmfile: %w", err)
			}
		case "LENG":
			length, err = strconv.Atoi(value)
			if err != nil || length < 1 {
				return nil, fmt.Errorf("hmmfile: bad LENG %q", value)
			}
		default:
			firstScore = line
			break header
		}
	}
	if name == "" || alphabet == nil || length < 0 {
		return nil, fmt.Errorf("hmmfile: incomplete header before %q: need NAME, ALPH and LENG", firstScore)
	}

	match := make([][]float32, 0, length)
	for i := 0; i < length; i++ {
		if i == 0 {
			line = firstScore
		} else {
			line, err = nextLine(sc)
			if err != nil {
				return nil, fmt.Errorf("hmmfile: profile %q: truncated scores: %w", name, err)
			}
		}
		fields := strings.Fields(line)
		if len(fields) != alphabet.Size() {
			return nil, fmt.Errorf("hmmfile: profile %q: column %d has %d scores, want %d", name, i, len(fields), alphabet.Size())
		}
		row := make([]float32, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("hmmfile: profile %q: column %d: %w", name, i, err)
			}
			row[j] = float32(v)
		}
		match = append(match, row)
	}

	line, err = nextLine(sc)
	if err != nil || line != "//" {
		return nil, fmt.Errorf("hmmfile: profile %q: missing // terminator", name)
	}

	model, err := profile.NewModel(alphabet, name, match)
	if err != nil {
		return nil, fmt.Errorf("hmmfile: %w", err)
	}
	model.Accession = accession
	model.Description = description
	return model, nil
}

func nextLine(sc *bufio.Scanner) (string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Open reads a text profile database from a possibly compressed file.
// "-" reads stdin.
func Open(path string) ([]*profile.Model, error) {
	rc, err := zio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadAll(rc)
}

// Write writes profiles to w in text form.
func Write(w io.Writer, models ...*profile.Model) error {
	bw := bufio.NewWriter(w)
	for _, m := range models {
		fmt.Fprintln(bw, formatTag)
		fmt.Fprintf(bw, "NAME %s\n", m.Name)
		if m.Accession != "" {
			fmt.Fprintf(bw, "ACC %s\n", m.Accession)
		}
		if m.Description != "" {
			fmt.Fprintf(bw, "DESC %s\n", m.Description)
		}
		fmt.Fprintf(bw, "ALPH %s\n", m.Alphabet().Name())
		fmt.Fprintf(bw, "LENG %d\n", m.M())
		for i := 0; i < m.M(); i++ {
			for j, s := range m.MatchScores(i) {
				if j > 0 {
					fmt.Fprint(bw, " ")
				}
				fmt.Fprintf(bw, "%.4f", s)
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, "//")
	}
	return bw.Flush()
}
