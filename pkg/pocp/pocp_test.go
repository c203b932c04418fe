package pocp_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/blast/blasttest"
	"github.com/andrew-torda/pairmat/pkg/pocp"
	"github.com/andrew-torda/pairmat/pkg/randseq"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// genomes writes nseq random sequences for each name into a fresh
// directory.
func genomes(t *testing.T, nseq map[string]int) string {
	t.Helper()
	dir := t.TempDir()
	seed := int64(1)
	for name, n := range nseq {
		var b bytes.Buffer
		args := randseq.RandSeqArgs{Iseed: seed, Wrtr: &b, Cmmt: name, Nseq: n, Len: 50, Width: 60}
		seed++
		if err := randseq.RandSeqMain(&args); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name+".faa"), b.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// table answers searches from a map keyed by "query>target" genome name.
func table(conserved map[string]int, fail map[string]bool) func(q, db string) (string, error) {
	return func(q, db string) (string, error) {
		qn := strings.TrimSuffix(filepath.Base(q), ".faa")
		dn := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(db), "_POCP"), ".faa")
		key := qn + ">" + dn
		if fail[key] {
			return "", errors.New("segmentation fault")
		}
		return blasttest.Conserved(qn, conserved[key]), nil
	}
}

func config(dir string) *pocp.Config {
	cfg := pocp.DfltConfig()
	cfg.InDir = dir
	cfg.Out = filepath.Join(dir, "out.tsv")
	return &cfg
}

func TestTwoGenomes(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 10, "B": 10})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 4, "B>A": 6}, nil)}
	m, _, err := pocp.Run(context.Background(), config(dir), rnr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get("A.faa", "B.faa"); !ok || v != 50 {
		t.Fatal("Expected 50 got", v, ok)
	}
	if v, ok := m.Get("B.faa", "A.faa"); !ok || v != 50 {
		t.Fatal("Expected symmetric 50 got", v, ok)
	}
	if n := len(rnr.Calls("makeblastdb")); n != 2 {
		t.Fatal("Expected 2 databases, got", n)
	}
	calls := rnr.Calls("blastp")
	if len(calls) != 2 {
		t.Fatal("Expected 2 searches, got", len(calls))
	}
	for _, c := range calls {
		if c.Args["-num_threads"] != "3" || c.Args["-max_target_seqs"] != "1" || c.Args["-evalue"] != "1e-05" {
			t.Error("unexpected search arguments", c.Args)
		}
	}
}

func TestUnequalSizes(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 10, "B": 30})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 10, "B>A": 10}, nil)}
	m, _, err := pocp.Run(context.Background(), config(dir), rnr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("A.faa", "B.faa"); v != 50 {
		t.Fatal("Expected 50 got", v)
	}
}

func TestNoHitsIsMarked(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 5, "B": 5, "C": 5})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 5, "B>A": 5}, nil)}
	cfg := config(dir)
	if ret := pocp.Mymain(context.Background(), cfg, rnr, nil); ret != common.ExitSuccess {
		t.Fatal("Expected success, got", ret)
	}
	b, err := os.ReadFile(cfg.Out)
	if err != nil {
		t.Fatal(err)
	}
	want := "POCP\tA.faa\tB.faa\tC.faa\n" +
		"A.faa\t100\t100\t~\n" +
		"B.faa\t100\t100\t~\n" +
		"C.faa\t~\t~\t100\n"
	if string(b) != want {
		t.Fatalf("Expected\n%s\ngot\n%s", want, b)
	}
}

func TestLower(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 5, "B": 5})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 1, "B>A": 1}, nil)}
	cfg := config(dir)
	cfg.Lower = true
	if ret := pocp.Mymain(context.Background(), cfg, rnr, nil); ret != common.ExitSuccess {
		t.Fatal("Expected success, got", ret)
	}
	b, _ := os.ReadFile(cfg.Out)
	want := "POCP\tA.faa\tB.faa\n" +
		"A.faa\t100\t~\n" +
		"B.faa\t20\t100\n"
	if string(b) != want {
		t.Fatalf("Expected\n%q\ngot\n%q", want, b)
	}
}

func TestReuse(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 4, "B": 4})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 2, "B>A": 2}, nil)}
	cfg := config(dir)
	for i := 0; i < 2; i++ {
		if _, _, err := pocp.Run(context.Background(), cfg, rnr, nil); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(rnr.Calls("blastp")); n != 2 {
		t.Fatal("Expected the second run to reuse output, got", n, "searches")
	}
	if n := len(rnr.Calls("makeblastdb")); n != 2 {
		t.Fatal("Expected the second run to reuse databases, got", n)
	}

	if err := pocp.Clean(dir); err != nil {
		t.Fatal(err)
	}
	left, _ := filepath.Glob(filepath.Join(dir, "*"))
	for _, f := range left {
		if !strings.HasSuffix(f, ".faa") && !strings.HasSuffix(f, ".tsv") {
			t.Error("Clean left", f)
		}
	}
}

func TestFailureLenient(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 5, "B": 5, "C": 5})
	rnr := &blasttest.FakeRunner{Table: table(
		map[string]int{"A>B": 5, "B>A": 5, "A>C": 5, "C>A": 5, "B>C": 5, "C>B": 5},
		map[string]bool{"B>C": true})}
	m, results, err := pocp.Run(context.Background(), config(dir), rnr, nil)
	if err != nil {
		t.Fatal(err)
	}
	nFail := 0
	for _, r := range results {
		var tErr *blast.ToolError
		if r.Err != nil {
			nFail++
			if !errors.As(r.Err, &tErr) {
				t.Error("Expected a ToolError, got", r.Err)
			}
		}
	}
	if nFail != 1 {
		t.Fatal("Expected one failed pair, got", nFail)
	}
	if _, ok := m.Get("B.faa", "C.faa"); ok {
		t.Error("Expected failed cell to be empty")
	}
	if v, ok := m.Get("A.faa", "C.faa"); !ok || v != 100 {
		t.Error("Expected 100 for A C, got", v, ok)
	}
	if _, err := os.Stat(pocp.OutName(filepath.Join(dir, "B.faa"), filepath.Join(dir, "C.faa"))); err == nil {
		t.Error("partial output left behind")
	}
}

func TestFailFast(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 5, "B": 5, "C": 5})
	rnr := &blasttest.FakeRunner{Table: table(nil, map[string]bool{"A>B": true})}
	cfg := config(dir)
	cfg.FailFast = true
	_, _, err := pocp.Run(context.Background(), cfg, rnr, nil)
	var tErr *blast.ToolError
	if !errors.As(err, &tErr) {
		t.Fatal("Expected a ToolError, got", err)
	}
	if ret := pocp.Mymain(context.Background(), cfg, rnr, nil); ret != common.ExitFailure {
		t.Fatal("Expected failure exit, got", ret)
	}
}

func TestTooFew(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 5})
	_, _, err := pocp.Run(context.Background(), config(dir), &blasttest.FakeRunner{}, nil)
	if err == nil {
		t.Fatal("Expected error for one genome")
	}
	if _, _, err := pocp.Run(context.Background(), config(filepath.Join(dir, "nope")), &blasttest.FakeRunner{}, nil); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}

func TestCancelled(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 5, "B": 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := pocp.Run(ctx, config(dir), &blasttest.FakeRunner{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatal("Expected context.Canceled, got", err)
	}
}

func TestWriteTableStats(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 10, "B": 10})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 4, "B>A": 6}, nil)}
	m, _, err := pocp.Run(context.Background(), config(dir), rnr, nil)
	if err != nil {
		t.Fatal(err)
	}
	st, ok := m.Stats()
	if !ok || st.Mean != 50 {
		t.Fatal("Expected mean 50 got", st.Mean, ok)
	}
	var b bytes.Buffer
	if err := m.WriteTable(&b, &scoremat.POCPReport); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "\t50\n") {
		t.Fatal("Expected 50 in table, got", b.String())
	}
}

func TestOneThird(t *testing.T) {
	dir := genomes(t, map[string]int{"A": 2, "B": 1})
	rnr := &blasttest.FakeRunner{Table: table(map[string]int{"A>B": 1}, nil)}
	cfg := config(dir)
	if ret := pocp.Mymain(context.Background(), cfg, rnr, nil); ret != common.ExitSuccess {
		t.Fatal("Expected success, got", ret)
	}
	b, _ := os.ReadFile(cfg.Out)
	if !strings.Contains(string(b), "A.faa\t100\t33.33333333333333\n") {
		t.Fatalf("Expected 1 of 3 as 33.33333333333333, got\n%s", b)
	}
}
