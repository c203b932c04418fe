// 15 Oct 2026

// Package hits reads the tabular output of a blast search run with
// -outfmt "6 std qlen". A query may have several lines, one per
// alignable region. The order of lines in the file matters: for each
// query only the first line which passes the thresholds counts.
package hits

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// NField is the number of columns we need, the twelve standard
// columns plus qlen.
const NField = 13

// Record is one line of output. Coordinates are 1-based and inclusive,
// as blast writes them.
type Record struct {
	Qid, Sid string
	Ident    float64 // percent identity
	AlnLen   int
	Mismatch int
	GapOpen  int
	Qstart   int
	Qend     int
	Sstart   int
	Send     int
	Evalue   float64
	Bitscore float64
	Qlen     int
}

// Coverage is the fraction of the query inside the alignment.
func (r *Record) Coverage() float64 {
	return float64(r.Qend-r.Qstart+1) / float64(r.Qlen)
}

// MalformedRecordError is a line we could not use. The run carries on
// without it.
type MalformedRecordError struct {
	Line  int
	Text  string
	Field string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	s := fmt.Sprintf("malformed hit record at line %d (%s)", e.Line, e.Field)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

var errRange = errors.New("out of range")

// ParseLine breaks up one line. lineNo is only used for messages.
func ParseLine(line string, lineNo int) (Record, error) {
	var r Record
	f := strings.Fields(line)
	bad := func(field string, err error) (Record, error) {
		return Record{}, &MalformedRecordError{Line: lineNo, Text: line, Field: field, Err: err}
	}
	if len(f) < NField {
		return bad("columns", fmt.Errorf("got %d columns, want %d", len(f), NField))
	}
	r.Qid, r.Sid = f[0], f[1]
	var err error
	if r.Ident, err = strconv.ParseFloat(f[2], 64); err != nil {
		return bad("pident", err)
	}
	ints := []struct {
		name string
		dst  *int
		s    string
	}{
		{"length", &r.AlnLen, f[3]},
		{"mismatch", &r.Mismatch, f[4]},
		{"gapopen", &r.GapOpen, f[5]},
		{"qstart", &r.Qstart, f[6]},
		{"qend", &r.Qend, f[7]},
		{"sstart", &r.Sstart, f[8]},
		{"send", &r.Send, f[9]},
		{"qlen", &r.Qlen, f[12]},
	}
	for _, x := range ints {
		if *x.dst, err = strconv.Atoi(x.s); err != nil {
			return bad(x.name, err)
		}
	}
	if r.Evalue, err = strconv.ParseFloat(f[10], 64); err != nil {
		return bad("evalue", err)
	}
	if r.Bitscore, err = strconv.ParseFloat(f[11], 64); err != nil {
		return bad("bitscore", err)
	}
	switch {
	case r.Ident < 0 || r.Ident > 100:
		return bad("pident", errRange)
	case r.Qstart < 1 || r.Qstart > r.Qend:
		return bad("qstart", errRange)
	case r.Qend > r.Qlen:
		return bad("qend", errRange)
	}
	return r, nil
}

// Thresh says what makes a hit count as conserved.
type Thresh struct {
	MinIdent float64 // percent
	MinCov   float64 // fraction of query
}

// DfltThresh are the POCP values of Qin et al. 2014.
var DfltThresh = Thresh{MinIdent: 40, MinCov: 0.5}

// Qualifies. Both limits are inclusive.
func (th Thresh) Qualifies(r *Record) bool {
	return r.Ident >= th.MinIdent && r.Coverage() >= th.MinCov
}

// Tally is what we learnt from one output file.
type Tally struct {
	Conserved int  // distinct queries with a qualifying hit
	Records   int  // well formed lines
	Malformed int  // lines we skipped
	Missing   bool // file was absent or empty
	FirstBad  error
}

// skip says whether a line carries no record.
func skip(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || s[0] == '#'
}

func newScanner(rdr io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(rdr)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return sc
}

// CountConserved counts the queries with at least one qualifying line.
// A query is counted once, at its first qualifying line. Later lines
// for the same query, good or bad, change nothing.
func CountConserved(rdr io.Reader, th Thresh) (Tally, error) {
	var t Tally
	counted := make(map[string]bool)
	sc := newScanner(rdr)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		if skip(line) {
			continue
		}
		r, err := ParseLine(line, lineNo)
		if err != nil {
			if t.Malformed == 0 {
				t.FirstBad = err
			}
			t.Malformed++
			continue
		}
		t.Records++
		if counted[r.Qid] || !th.Qualifies(&r) {
			continue
		}
		counted[r.Qid] = true
		t.Conserved++
	}
	if err := sc.Err(); err != nil {
		return Tally{}, err
	}
	return t, nil
}

// CountFile is CountConserved on a file. A missing or empty file gives
// a zero count with Missing set, not an error.
func CountFile(fname string, th Thresh) (Tally, error) {
	fp, err := os.Open(fname)
	if errors.Is(err, os.ErrNotExist) {
		return Tally{Missing: true}, nil
	} else if err != nil {
		return Tally{}, err
	}
	defer fp.Close()
	t, err := CountConserved(fp, th)
	if err != nil {
		return Tally{}, fmt.Errorf("reading %s: %w", fname, err)
	}
	if t.Records == 0 && t.Malformed == 0 {
		t.Missing = true
	}
	return t, nil
}

// ErrNoAlignment says a search found nothing. It is not the same as a
// hit with 0 % identity.
var ErrNoAlignment = errors.New("no alignment")

// FirstIdentity returns the percent identity of the first well formed
// line. The search is run so the best hit comes first.
func FirstIdentity(rdr io.Reader) (float64, error) {
	sc := newScanner(rdr)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		if skip(line) {
			continue
		}
		if r, err := ParseLine(line, lineNo); err == nil {
			return r.Ident, nil
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoAlignment
}

// FirstIdentityFile is FirstIdentity on a file. A missing file is
// ErrNoAlignment.
func FirstIdentityFile(fname string) (float64, error) {
	fp, err := os.Open(fname)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%s: %w", fname, ErrNoAlignment)
	} else if err != nil {
		return 0, err
	}
	defer fp.Close()
	v, err := FirstIdentity(fp)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", fname, err)
	}
	return v, nil
}
