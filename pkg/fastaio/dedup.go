package fastaio

import (
	"bufio"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// DedupKey says what makes two records the same.
type DedupKey int

const (
	ByID  DedupKey = iota // the whole description line
	BySeq                 // the sequence itself
)

// kept is a record we will write.
type kept struct {
	header string
	seq    alphabet.Letters
}

func lettersString(l alphabet.Letters) string {
	b := make([]byte, len(l))
	for i, c := range l {
		b[i] = byte(c)
	}
	return string(b)
}

// Dedup reads the files in order and writes each distinct record once.
// A record keeps the position where its key was first seen. If a key
// comes back, the later record replaces the earlier one's contents.
// It returns the number written and the number dropped.
func Dedup(files []string, key DedupKey, alpha alphabet.Alphabet, w io.Writer) (int, int, error) {
	var order []string
	byKey := make(map[string]*kept)
	nIn := 0
	for _, fname := range files {
		err := EachSeq(fname, alpha, func(s *linear.Seq) error {
			nIn++
			k := header(s)
			if key == BySeq {
				k = lettersString(s.Seq)
			}
			rec := &kept{header: header(s), seq: append(alphabet.Letters(nil), s.Seq...)}
			if _, ok := byKey[k]; !ok {
				order = append(order, k)
			}
			byKey[k] = rec
			return nil
		})
		if err != nil {
			return 0, 0, err
		}
	}

	bw := bufio.NewWriter(w)
	for _, k := range order {
		rec := byKey[k]
		s := linear.NewSeq(rec.header, rec.seq, alpha)
		if err := writeOne(bw, s); err != nil {
			return 0, 0, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, 0, err
	}
	return len(order), nIn - len(order), nil
}
