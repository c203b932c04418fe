// Package blasttest has a stand-in for the BLAST+ programs so the
// drivers can be tested without them installed.
package blasttest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/andrew-torda/pairmat/pkg/blast"
)

// Call is one recorded invocation.
type Call struct {
	Name string
	Args map[string]string
}

// FakeRunner pretends to be makeblastdb and blastp/blastn. makeblastdb
// writes an empty header file. A search asks Table for the text to
// write to -out. If Table returns an error, the search fails like a
// program with a non-zero exit and writes half a line first.
type FakeRunner struct {
	Table func(query, db string) (string, error)
	Delay time.Duration

	mu      sync.Mutex
	calls   []Call
	running int
	Peak    int // most calls running at once
}

func argMap(args []string) map[string]string {
	m := make(map[string]string)
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				m[args[i]] = args[i+1]
				i++
			} else {
				m[args[i]] = ""
			}
		}
	}
	return m
}

// Run implements blast.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	am := argMap(args)
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: am})
	f.running++
	if f.running > f.Peak {
		f.Peak = f.running
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if name == "makeblastdb" {
		ext := ".phr"
		if am["-dbtype"] == "nucl" {
			ext = ".nhr"
		}
		return os.WriteFile(am["-out"]+ext, nil, 0o644)
	}
	out := am["-out"]
	if f.Table == nil {
		return os.WriteFile(out, nil, 0o644)
	}
	s, err := f.Table(am["-query"], am["-db"])
	if err != nil {
		os.WriteFile(out, []byte("partial\t"), 0o644)
		return &blast.ToolError{Cmd: append([]string{name}, args...), Code: 2, Stderr: err.Error()}
	}
	return os.WriteFile(out, []byte(s), 0o644)
}

// Calls returns the invocations so far, optionally only those of name.
func (f *FakeRunner) Calls(name string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ret []Call
	for _, c := range f.calls {
		if name == "" || c.Name == name {
			ret = append(ret, c)
		}
	}
	return ret
}

// HitLine makes one outfmt "6 std qlen" line.
func HitLine(q, s string, ident float64, qstart, qend, qlen int) string {
	return fmt.Sprintf("%s\t%s\t%.3f\t%d\t0\t0\t%d\t%d\t1\t%d\t1e-30\t200\t%d\n",
		q, s, ident, qend-qstart+1, qstart, qend, qend-qstart+1, qlen)
}

// Conserved makes n lines for distinct queries which pass the default
// POCP thresholds.
func Conserved(prefix string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(HitLine(fmt.Sprintf("%s_%d", prefix, i), "t", 90, 1, 90, 100))
	}
	return b.String()
}
