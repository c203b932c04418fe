package scoremat_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/pairs"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
)

func mustNew(t *testing.T, ids ...string) *scoremat.Matrix {
	t.Helper()
	m, err := scoremat.New(ids)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func table(t *testing.T, m *scoremat.Matrix, rep scoremat.Report) string {
	t.Helper()
	var b bytes.Buffer
	if err := m.WriteTable(&b, &rep); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestDuplicateIDs(t *testing.T) {
	_, err := scoremat.New([]string{"a", "b", "a"})
	var iErr *pairs.InvalidInputSetError
	if !errors.As(err, &iErr) || iErr.Dup != "a" {
		t.Fatal("Expected duplicate id error, got", err)
	}
}

func TestSetOnce(t *testing.T) {
	m := mustNew(t, "a", "b")
	if err := m.Set("a", "b", 50); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("a", "b", 60); !errors.Is(err, scoremat.ErrCellSet) {
		t.Fatal("Expected ErrCellSet got", err)
	}
	if v, ok := m.Get("a", "b"); !ok || v != 50 {
		t.Fatal("Expected 50 got", v, ok)
	}
	if _, ok := m.Get("b", "a"); ok {
		t.Fatal("b,a should be empty")
	}
	if err := m.Set("a", "a", 10); err == nil {
		t.Fatal("Expected error writing the diagonal")
	}
	if err := m.Set("a", "zz", 10); err == nil {
		t.Fatal("Expected error for unknown id")
	}
}

func TestDiagonal(t *testing.T) {
	for n := 1; n < 6; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		m := mustNew(t, ids...)
		lines := strings.Split(strings.TrimSpace(table(t, m, scoremat.POCPReport)), "\n")
		for i, line := range lines[1:] {
			f := strings.Split(line, "\t")
			if f[i+1] != "100" {
				t.Fatal("n", n, "row", i, "diagonal is", f[i+1])
			}
		}
	}
}

func TestPOCPTable(t *testing.T) {
	m := mustNew(t, "g2.faa", "g1.faa", "g3.faa")
	res := []scoremat.Result{
		{Row: "g2.faa", Col: "g1.faa", Val: 50, Ok: true, Symmetric: true},
		{Row: "g2.faa", Col: "g3.faa", Ok: false, Symmetric: true}, // no hits
		{Row: "g1.faa", Col: "g3.faa", Val: 12.5, Ok: true, Symmetric: true},
	}
	if n, err := m.Absorb(res, false, nil); err != nil || n != 2 {
		t.Fatal("Expected 2 stored, got", n, err)
	}
	want := "POCP\tg2.faa\tg1.faa\tg3.faa\n" +
		"g2.faa\t100\t50\t~\n" +
		"g1.faa\t50\t100\t12.5\n" +
		"g3.faa\t~\t12.5\t100\n"
	if diff := cmp.Diff(want, table(t, m, scoremat.POCPReport)); diff != "" {
		t.Error("(-want +got)\n", diff)
	}

	lower := scoremat.POCPReport
	lower.Lower = true
	want = "POCP\tg2.faa\tg1.faa\tg3.faa\n" +
		"g2.faa\t100\t~\t~\n" +
		"g1.faa\t50\t100\t~\n" +
		"g3.faa\t~\t12.5\t100\n"
	if diff := cmp.Diff(want, table(t, m, lower)); diff != "" {
		t.Error("lower (-want +got)\n", diff)
	}
}

func TestIdentTable(t *testing.T) {
	m := mustNew(t, "s2", "s1")
	m.Set("s1", "s2", 87.5)
	want := "\ts1\ts2\n" +
		"s1\t100\t87.5\n" +
		"s2\t100\t100\n"
	if diff := cmp.Diff(want, table(t, m, scoremat.IdentReport)); diff != "" {
		t.Error("(-want +got)\n", diff)
	}
	rep := scoremat.IdentReport
	rep.Fill = scoremat.FillMarker
	if got := table(t, m, rep); !strings.Contains(got, "s2\t~\t100") {
		t.Error("marker fill not used:\n", got)
	}
}

func TestAbsorbFailures(t *testing.T) {
	toolErr := &blast.ToolError{Cmd: []string{"blastp"}, Code: 1}
	res := []scoremat.Result{
		{Row: "a", Col: "b", Val: 10, Ok: true},
		{Row: "b", Col: "a", Err: toolErr},
		{Row: "a", Col: "c", Val: 20, Ok: true},
	}
	lenient := mustNew(t, "a", "b", "c")
	if n, err := lenient.Absorb(res, false, nil); err != nil || n != 2 {
		t.Fatal("lenient: Expected 2 and no error, got", n, err)
	}
	strict := mustNew(t, "a", "b", "c")
	n, err := strict.Absorb(res, true, nil)
	var tErr *blast.ToolError
	if !errors.As(err, &tErr) || n != 1 {
		t.Fatal("fail fast: Expected ToolError after 1, got", n, err)
	}
	// absorbing again is a no-op
	if n, err := lenient.Absorb(res, false, nil); err != nil || n != 0 {
		t.Fatal("second absorb: Expected 0, got", n, err)
	}
}

func TestStats(t *testing.T) {
	m := mustNew(t, "a", "b")
	if _, ok := m.Stats(); ok {
		t.Fatal("empty matrix should have no stats")
	}
	m.Set("a", "b", 87.5)
	s, ok := m.Stats()
	if !ok {
		t.Fatal("Expected stats")
	}
	want := scoremat.Stats{
		Max: scoremat.Cell{Row: "a", Col: "b", Val: 87.5},
		Min: scoremat.Cell{Row: "a", Col: "b", Val: 87.5},
		Mean: 87.5, N: 1,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatal("(-want +got)\n", diff)
	}

	m = mustNew(t, "a", "b", "c")
	m.Set("a", "b", 90)
	m.Set("b", "a", 60)
	m.Set("c", "a", 30)
	s, _ = m.Stats()
	if s.Max.Val != 90 || s.Min.Row != "c" || s.Min.Col != "a" || s.Mean != 60 || s.N != 3 {
		t.Fatalf("wrong stats %+v", s)
	}
	var b bytes.Buffer
	s.Write(&b, "Identity")
	if !strings.Contains(b.String(), "90%: a -> b") || !strings.Contains(b.String(), "Average Identity: 60.0000%") {
		t.Error("bad summary\n", b.String())
	}
}

func TestParseFill(t *testing.T) {
	if f, err := scoremat.ParseFill("hundred"); err != nil || f != scoremat.FillHundred {
		t.Fatal(f, err)
	}
	if f, err := scoremat.ParseFill("~"); err != nil || f != scoremat.FillMarker {
		t.Fatal(f, err)
	}
	if _, err := scoremat.ParseFill("zero"); err == nil {
		t.Fatal("Expected error")
	}
}

func TestFullPrecision(t *testing.T) {
	third := 1.0 / 3 * 100
	m := mustNew(t, "A.faa", "B.faa")
	if err := m.Set("A.faa", "B.faa", third); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("A.faa", "B.faa"); v != third {
		t.Fatal("Expected", third, "got", v)
	}
	if s, _ := m.Stats(); s.Mean != third || s.Max.Val != third {
		t.Fatal("Expected mean", third, "got", s.Mean)
	}
	got := table(t, m, scoremat.POCPReport)
	if !strings.Contains(got, "A.faa\t100\t33.33333333333333\n") {
		t.Fatal("Expected full precision in table, got\n", got)
	}
}
