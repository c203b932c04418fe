// 16 Oct 2026

// Package scoremat collects pairwise scores into a square matrix and
// writes it out as a tab separated table. Cells which were never set
// are filled in on output according to a policy. The diagonal is
// always 100.
package scoremat

import (
	"errors"
	"fmt"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/pairmat/pkg/pairs"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// Self is the score of anything against itself.
const Self = 100

// ErrCellSet is returned if a cell is written a second time.
var ErrCellSet = errors.New("cell already set")

// Matrix is a square matrix of scores indexed by input identifiers.
// Scores are kept at full precision. set marks the cells which have
// one.
type Matrix struct {
	ids   []string
	index map[string]int
	val   [][]float64
	set   *matrix.BMatrix2d
}

// New makes an empty matrix. The order of ids is kept as the declared
// order. Duplicate ids are an error.
func New(ids []string) (*Matrix, error) {
	m := &Matrix{
		ids:   append([]string(nil), ids...),
		index: make(map[string]int, len(ids)),
		val:   make([][]float64, len(ids)),
		set:   matrix.NewBMatrix2d(len(ids), len(ids)),
	}
	full := make([]float64, len(ids)*len(ids))
	for i := range m.val {
		m.val[i], full = full[:len(ids):len(ids)], full[len(ids):]
	}
	for i, id := range ids {
		if _, ok := m.index[id]; ok {
			return nil, &pairs.InvalidInputSetError{N: len(ids), Dup: id}
		}
		m.index[id] = i
	}
	return m, nil
}

// IDs returns the identifiers in declared order.
func (m *Matrix) IDs() []string { return append([]string(nil), m.ids...) }

// Len is the number of rows
func (m *Matrix) Len() int { return len(m.ids) }

func (m *Matrix) lookup(row, col string) (int, int, error) {
	i, ok := m.index[row]
	if !ok {
		return 0, 0, fmt.Errorf("unknown id %q", row)
	}
	j, ok := m.index[col]
	if !ok {
		return 0, 0, fmt.Errorf("unknown id %q", col)
	}
	return i, j, nil
}

// Set stores the score for row against col. Each off diagonal cell can
// only be written once. Writing the diagonal is an error.
func (m *Matrix) Set(row, col string, v float64) error {
	i, j, err := m.lookup(row, col)
	if err != nil {
		return err
	}
	if i == j {
		return fmt.Errorf("%s: diagonal is fixed at %d", row, Self)
	}
	if m.set.Mat[i][j] != 0 {
		return fmt.Errorf("%s against %s: %w", row, col, ErrCellSet)
	}
	m.val[i][j] = v
	m.set.Mat[i][j] = 1
	return nil
}

// Get returns the score and whether there is one.
func (m *Matrix) Get(row, col string) (float64, bool) {
	i, j, err := m.lookup(row, col)
	if err != nil {
		return 0, false
	}
	return m.at(i, j)
}

// at is Get by index.
func (m *Matrix) at(i, j int) (float64, bool) {
	if i == j {
		return Self, true
	}
	if m.set.Mat[i][j] == 0 {
		return 0, false
	}
	return m.val[i][j], true
}

// Result is the outcome of one comparison. If Err is set the
// comparison failed. If Ok is false there was nothing to score, which
// is not a failure. Symmetric results fill both cells.
type Result struct {
	Row, Col  string
	Val       float64
	Ok        bool
	Symmetric bool
	Err       error
}

// Absorb puts the results into the matrix. With failFast, the first
// failed comparison is returned as an error. Otherwise failures are
// logged and the cells stay empty. Cells already set are skipped.
// It returns the number of results stored.
func (m *Matrix) Absorb(res []Result, failFast bool, lg *common.Logger) (int, error) {
	n := 0
	for _, r := range res {
		if r.Err != nil {
			if failFast {
				return n, fmt.Errorf("%s against %s: %w", r.Row, r.Col, r.Err)
			}
			lg.Warnf("%s against %s skipped: %v", r.Row, r.Col, r.Err)
			continue
		}
		if !r.Ok {
			continue
		}
		err := m.Set(r.Row, r.Col, r.Val)
		if err == nil && r.Symmetric {
			err = m.Set(r.Col, r.Row, r.Val)
		}
		switch {
		case errors.Is(err, ErrCellSet):
			lg.Debugf("%v", err)
		case err != nil:
			return n, err
		default:
			n++
		}
	}
	return n, nil
}
