package fastaio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/andrew-torda/pairmat/pkg/numseq"
	"github.com/andrew-torda/pairmat/pkg/pairs"
)

// Record is one sequence written to its own file.
type Record struct {
	ID   string
	Path string
	Len  int
}

// SafeName turns a sequence id into something usable as a file name.
func SafeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, id)
}

// SplitRecords writes each sequence of fname to dir/<id>.faa. The
// records come back in file order. Ids must be unique, also after
// being made safe for file names.
func SplitRecords(fname, dir string, alpha alphabet.Alphabet) ([]Record, error) {
	var recs []Record
	seen := make(map[string]string)
	err := EachSeq(fname, alpha, func(s *linear.Seq) error {
		safe := SafeName(s.ID)
		if old, ok := seen[safe]; ok {
			return &pairs.InvalidInputSetError{N: len(recs) + 1, Dup: old + " / " + s.ID}
		}
		seen[safe] = s.ID
		path := filepath.Join(dir, safe+".faa")
		fp, err := create(path)
		if err != nil {
			return err
		}
		if err = writeOne(fp, s); err != nil {
			fp.Close()
			return err
		}
		if err = fp.Close(); err != nil {
			return err
		}
		recs = append(recs, Record{ID: s.ID, Path: path, Len: s.Len()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// PerFile works out how many sequences go in each of nParts files.
func PerFile(fname string, nParts int) (int, error) {
	if nParts < 1 {
		return 0, fmt.Errorf("number of parts must be positive, not %d", nParts)
	}
	total, err := numseq.Count(fname)
	if err != nil {
		return 0, err
	}
	per := (total + nParts - 1) / nParts
	if per < 1 {
		per = 1
	}
	return per, nil
}

// Split writes the sequences of fname into files in outdir with perFile
// sequences each (the last may have fewer). Files are called
// <base>.p-<k><ext>, counting from 1. It returns the file names.
func Split(fname, outdir string, perFile int, alpha alphabet.Alphabet) ([]string, error) {
	if perFile < 1 {
		return nil, fmt.Errorf("sequences per file must be positive, not %d", perFile)
	}
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return nil, err
	}
	base, ext := splitExt(fname)
	var names []string
	var fp *os.File
	n := 0
	err := EachSeq(fname, alpha, func(s *linear.Seq) error {
		if n%perFile == 0 {
			if fp != nil {
				if err := fp.Close(); err != nil {
					return err
				}
			}
			name := filepath.Join(outdir, fmt.Sprintf("%s.p-%d%s", base, len(names)+1, ext))
			var err error
			if fp, err = create(name); err != nil {
				return err
			}
			names = append(names, name)
		}
		n++
		return writeOne(fp, s)
	})
	if fp != nil {
		err = errors.Join(err, fp.Close())
	}
	if err != nil {
		return nil, err
	}
	return names, nil
}
