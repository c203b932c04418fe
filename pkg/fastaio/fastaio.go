// 17 Oct 2026

// Package fastaio reads and writes fasta files for the matrix tools and
// the small utilities that go with them. Input may be gzipped.
package fastaio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/andrew-torda/pairmat/pkg/zwrap"
)

// LineWidth is the sequence line length we write.
const LineWidth = 70

// Alphabet returns the template alphabet for protein or nucleotide
// input. The gapped alphabets are used so aligned input is not refused.
func Alphabet(nucl bool) alphabet.Alphabet {
	if nucl {
		return alphabet.DNAgapped
	}
	return alphabet.Protein
}

// EachSeq calls fn on every sequence in fname.
func EachSeq(fname string, alpha alphabet.Alphabet, fn func(s *linear.Seq) error) error {
	fz, err := zwrap.Open(fname)
	if err != nil {
		return err
	}
	defer fz.Close()
	sc := seqio.NewScanner(fasta.NewReader(fz, linear.NewSeq("", nil, alpha)))
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return fmt.Errorf("%s: unexpected sequence type %T", fname, sc.Seq())
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("reading %s: %w", fname, err)
	}
	return nil
}

// header is the full description line without the '>'.
func header(s *linear.Seq) string {
	if s.Desc == "" {
		return s.ID
	}
	return s.ID + " " + s.Desc
}

// writeOne writes one sequence in fasta format.
func writeOne(w io.Writer, s *linear.Seq) error {
	_, err := fasta.NewWriter(w, LineWidth).Write(s)
	return err
}

// splitExt separates "x.faa.gz" into "x" and ".faa".
func splitExt(fname string) (string, string) {
	base := filepath.Base(fname)
	base = strings.TrimSuffix(base, ".gz")
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// create makes a file, adding the name to any error.
func create(fname string) (*os.File, error) {
	fp, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return fp, nil
}
