// Package fasta reads FASTA-formatted sequence files into the digitized
// representation used by searches. Compressed input (gzip, zstd, lz4) is
// handled transparently.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/hmmgo/hmmgo/internal/zio"
	"github.com/hmmgo/hmmgo/seq"
)

// Record is one raw FASTA entry: the header split into name and trailing
// description, and the concatenated sequence text.
type Record struct {
	Name        string
	Description string
	Text        string
}

// Allow single-line sequences up to 64 MiB.
const maxLine = 64 * 1024 * 1024

// Read returns a lazy stream of records from r. Parsing stops at the first
// error; iteration after an error yields nothing further.
func Read(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), maxLine)

		var (
			rec  Record
			text bytes.Buffer
			open bool
		)
		flush := func() bool {
			rec.Text = text.String()
			text.Reset()
			return yield(rec, nil)
		}
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			if line[0] == '>' {
				if open && !flush() {
					return
				}
				name, desc, _ := strings.Cut(string(bytes.TrimSpace(line[1:])), " ")
				rec = Record{Name: name, Description: strings.TrimSpace(desc)}
				open = true
				continue
			}
			if !open {
				yield(Record{}, fmt.Errorf("fasta: sequence data before first header"))
				return
			}
			text.Write(line)
		}
		if err := sc.Err(); err != nil {
			yield(Record{}, fmt.Errorf("fasta: %w", err))
			return
		}
		if open {
			flush()
		}
	}
}

// ReadAll reads every record from r.
func ReadAll(r io.Reader) ([]Record, error) {
	var records []Record
	for rec, err := range Read(r) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadBlock digitizes every record in r into a sequence block over the
// given alphabet.
func ReadBlock(r io.Reader, alphabet *seq.Alphabet) (*seq.SequenceBlock, error) {
	block := seq.NewSequenceBlock(alphabet)
	for rec, err := range Read(r) {
		if err != nil {
			return nil, err
		}
		s, err := seq.NewSequence(alphabet, rec.Name, rec.Text)
		if err != nil {
			return nil, fmt.Errorf("fasta: sequence %q: %w", rec.Name, err)
		}
		s.Description = rec.Description
		if err := block.Append(s); err != nil {
			return nil, err
		}
	}
	return block, nil
}

// OpenBlock reads a FASTA file into a sequence block. Compression is
// detected automatically; "-" reads stdin.
func OpenBlock(path string, alphabet *seq.Alphabet) (*seq.SequenceBlock, error) {
	rc, err := zio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadBlock(rc, alphabet)
}

// Write writes records to w in FASTA format with 60-column line wrapping.
func Write(w io.Writer, records ...Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if rec.Description != "" {
			fmt.Fprintf(bw, ">%s %s\n", rec.Name, rec.Description)
		} else {
			fmt.Fprintf(bw, ">%s\n", rec.Name)
		}
		for off := 0; off < len(rec.Text); off += 60 {
			end := off + 60
			if end > len(rec.Text) {
				end = len(rec.Text)
			}
			fmt.Fprintln(bw, rec.Text[off:end])
		}
	}
	return bw.Flush()
}
