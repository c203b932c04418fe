package scoremat

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Order of rows and columns on output
type Order int

const (
	Declared Order = iota // the order ids were given to New
	Sorted                // lexicographic
)

// Fill says what goes in a cell with no score.
type Fill int

const (
	FillMarker  Fill = iota // write Report.Marker
	FillHundred             // write 100, as if identical
)

// ParseFill reads the name used on the command line.
func ParseFill(s string) (Fill, error) {
	switch strings.ToLower(s) {
	case "marker", "~":
		return FillMarker, nil
	case "hundred", "100":
		return FillHundred, nil
	}
	return 0, fmt.Errorf("fill must be marker or hundred, not %q", s)
}

// Report controls how a matrix is written.
type Report struct {
	Corner string // top left cell
	Order  Order
	Fill   Fill
	Marker string
	Lower  bool // only write cells below the diagonal
}

// POCPReport is how POCP tables have always looked.
var POCPReport = Report{Corner: "POCP", Order: Declared, Fill: FillMarker, Marker: "~"}

// IdentReport is the layout for identity matrices.
var IdentReport = Report{Corner: "", Order: Sorted, Fill: FillHundred, Marker: "~"}

// fmtScore writes a score with as many digits as it needs.
func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// order returns the row indices in output order.
func (m *Matrix) order(o Order) []int {
	ndx := make([]int, len(m.ids))
	for i := range ndx {
		ndx[i] = i
	}
	if o == Sorted {
		sort.SliceStable(ndx, func(a, b int) bool { return m.ids[ndx[a]] < m.ids[ndx[b]] })
	}
	return ndx
}

// cell is the text for one cell.
func (m *Matrix) cell(i, j int, rep *Report, below bool) string {
	if i == j {
		return strconv.Itoa(Self)
	}
	v, ok := m.at(i, j)
	if rep.Lower && !below {
		ok = false
	}
	if ok {
		return fmtScore(v)
	}
	if rep.Fill == FillHundred {
		return strconv.Itoa(Self)
	}
	return rep.Marker
}

// WriteTable writes the matrix as tab separated text. The first row
// is the corner label and the ids, then one row per id.
func (m *Matrix) WriteTable(w io.Writer, rep *Report) error {
	bw := bufio.NewWriter(w)
	ndx := m.order(rep.Order)
	fields := make([]string, 0, len(ndx)+1)
	fields = append(fields, rep.Corner)
	for _, i := range ndx {
		fields = append(fields, m.ids[i])
	}
	bw.WriteString(strings.Join(fields, "\t") + "\n")
	for r, i := range ndx {
		fields = append(fields[:0], m.ids[i])
		for c, j := range ndx {
			fields = append(fields, m.cell(i, j, rep, c < r))
		}
		bw.WriteString(strings.Join(fields, "\t") + "\n")
	}
	return bw.Flush()
}

// Cell is one score with where it came from.
type Cell struct {
	Row, Col string
	Val      float64
}

// Stats summarise the off diagonal scores which are present.
type Stats struct {
	Max, Min Cell
	Mean     float64
	N        int
}

// Stats returns the largest, smallest and mean off diagonal scores.
// Ties go to the first cell in row order. It returns false if no
// off diagonal cell has a score.
func (m *Matrix) Stats() (Stats, bool) {
	var s Stats
	var sum float64
	for i := range m.ids {
		for j := range m.ids {
			if i == j {
				continue
			}
			v, ok := m.at(i, j)
			if !ok {
				continue
			}
			c := Cell{Row: m.ids[i], Col: m.ids[j], Val: v}
			if s.N == 0 || v > s.Max.Val {
				s.Max = c
			}
			if s.N == 0 || v < s.Min.Val {
				s.Min = c
			}
			sum += v
			s.N++
		}
	}
	if s.N == 0 {
		return s, false
	}
	s.Mean = sum / float64(s.N)
	return s, true
}

// Write prints the summary. what is the name of the score.
func (s Stats) Write(w io.Writer, what string) error {
	_, err := fmt.Fprintf(w, "\n***** Statistics *****\n"+
		"Maximum %[1]s:\n%[2]s%%: %[3]s -> %[4]s\n"+
		"Minimum %[1]s:\n%[5]s%%: %[6]s -> %[7]s\n"+
		"Average %[1]s: %[8]s%%\n",
		what,
		fmtScore(s.Max.Val), s.Max.Row, s.Max.Col,
		fmtScore(s.Min.Val), s.Min.Row, s.Min.Col,
		strconv.FormatFloat(s.Mean, 'f', 4, 64))
	return err
}
