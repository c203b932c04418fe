// 15 Oct 2026

// Package blast runs the BLAST+ programs as external processes. It
// builds a database per input with makeblastdb and runs one search per
// directed comparison, writing tabular output to a file. Files already
// present are reused, so an interrupted run can be restarted.
//
// Nothing is locked. Two runs in the same directory at the same time
// can trip over each other's databases and output files.
package blast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Program is the search program, blastp or blastn.
type Program string

const (
	Blastp Program = "blastp"
	Blastn Program = "blastn"
)

// ParseProgram checks the name given on the command line.
func ParseProgram(s string) (Program, error) {
	switch p := Program(strings.ToLower(s)); p {
	case Blastp, Blastn:
		return p, nil
	}
	return "", fmt.Errorf("only blastp or blastn is supported, not %q", s)
}

// DBType is the makeblastdb -dbtype for the program.
func (p Program) DBType() string {
	if p == Blastn {
		return "nucl"
	}
	return "prot"
}

// DfltOutfmt is the table format the hits package reads.
const DfltOutfmt = "6 std qlen"

// Config holds the search settings. It is passed in explicitly, never
// read from flags.
type Config struct {
	Program       Program
	Evalue        float64
	MaxTargetSeqs int // 0 means do not pass the option
	Threads       int // -num_threads for each call
	Outfmt        string
}

// DfltConfig has the values used for POCP.
var DfltConfig = Config{
	Program:       Blastp,
	Evalue:        1e-5,
	MaxTargetSeqs: 1,
	Threads:       1,
	Outfmt:        DfltOutfmt,
}

// searchArgs builds the argument list for one search.
func (c *Config) searchArgs(query, db, out string) []string {
	args := []string{
		"-query", query,
		"-out", out,
		"-db", db,
		"-evalue", strconv.FormatFloat(c.Evalue, 'g', -1, 64),
		"-outfmt", c.Outfmt,
	}
	if c.MaxTargetSeqs > 0 {
		args = append(args, "-max_target_seqs", strconv.Itoa(c.MaxTargetSeqs))
	}
	threads := c.Threads
	if threads < 1 {
		threads = 1
	}
	return append(args, "-num_threads", strconv.Itoa(threads))
}

// params is a fingerprint of everything which changes the output.
func (c *Config) params() string {
	return strings.Join(c.searchArgs("", "", "")[6:], " ") + " " + string(c.Program)
}

// ToolError is an external program which did not finish properly.
type ToolError struct {
	Cmd    []string
	Code   int // exit code, -1 if it never ran or was killed
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	s := fmt.Sprintf("%s failed", strings.Join(e.Cmd, " "))
	if e.Code >= 0 {
		s += fmt.Sprintf(" with exit code %d", e.Code)
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		s += ": " + msg
	} else if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ToolError) Unwrap() error { return e.Err }

// Runner runs an external command. The real one is ExecRunner. Tests
// use a fake which writes output files itself.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. Standard output is thrown
// away and the tail of standard error goes into any ToolError.
type ExecRunner struct{}

const maxStderr = 2048

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	te := &ToolError{Cmd: append([]string{name}, args...), Code: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.Code = exitErr.ExitCode()
	}
	msg := stderr.Bytes()
	if len(msg) > maxStderr {
		msg = msg[len(msg)-maxStderr:]
	}
	te.Stderr = string(msg)
	return te
}

// Available checks the programs we need are on the path.
func Available(p Program) error {
	for _, name := range []string{"makeblastdb", string(p)} {
		if _, err := exec.LookPath(name); err != nil {
			return fmt.Errorf("BLAST+ needs to be installed: %w", err)
		}
	}
	return nil
}
