// 3 Aug 2020

// Package numseq counts the sequences in a fasta file by counting the
// lines which start with ">". Plain files are memory mapped. Compressed
// files have to be streamed through the decompressor.
package numseq

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/pairmat/pkg/zwrap"
)

const cmmtChar = '>'

// countStarts counts cmmtChar at the start of a line. atStart says
// whether the byte before buf was a newline (or there was no byte).
// It returns the count and whether the last byte was a newline.
func countStarts(buf []byte, atStart bool) (int, bool) {
	if len(buf) == 0 {
		return 0, atStart
	}
	n := bytes.Count(buf, []byte{'\n', cmmtChar})
	if atStart && buf[0] == cmmtChar {
		n++
	}
	return n, buf[len(buf)-1] == '\n'
}

// byMmap maps the file and counts in one go.
func byMmap(fp *os.File) (int, error) {
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer mm.Unmap()
	n, _ := countStarts(mm, true)
	return n, nil
}

// byReading streams through a reader with a fixed buffer. We have to
// remember if the last buffer ended in a newline.
func byReading(rdr io.Reader) (int, error) {
	const bsize = 64 * 1024
	var buf [bsize]byte
	count := 0
	atStart := true
	for {
		n, err := rdr.Read(buf[:])
		var m int
		m, atStart = countStarts(buf[:n], atStart)
		count += m
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// Count returns the number of sequences in fname. An empty file has
// zero sequences. It is not an error.
func Count(fname string) (int, error) {
	fi, err := os.Stat(fname)
	if err != nil {
		return 0, err
	}
	if fi.Size() == 0 {
		return 0, nil // mmap refuses zero length files
	}
	if gz, err := zwrap.IsGzipped(fname); err != nil {
		return 0, err
	} else if gz {
		fz, err := zwrap.Open(fname)
		if err != nil {
			return 0, err
		}
		defer fz.Close()
		n, err := byReading(fz)
		if err != nil {
			return 0, fmt.Errorf("counting sequences in %s: %w", fname, err)
		}
		return n, nil
	}
	fp, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	n, err := byMmap(fp)
	if err != nil {
		return 0, fmt.Errorf("counting sequences in %s: %w", fname, err)
	}
	return n, nil
}

// Cache remembers counts so each input is only read once. It is safe
// for concurrent use.
type Cache struct {
	mu sync.Mutex
	n  map[string]int
}

// NewCache
func NewCache() *Cache { return &Cache{n: make(map[string]int)} }

// Count returns the number of sequences in fname, reading the file
// only the first time we are asked.
func (c *Cache) Count(fname string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.n[fname]; ok {
		return n, nil
	}
	n, err := Count(fname)
	if err != nil {
		return 0, err
	}
	c.n[fname] = n
	return n, nil
}
