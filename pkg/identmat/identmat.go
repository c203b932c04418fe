// 18 Oct 2026

// Package identmat builds an all against all percent identity matrix
// for the sequences of one fasta file. Each sequence goes to its own
// file in a work directory and gets its own blast database. Every
// ordered pair is then searched, query against target. The cell in
// row q, column t is the identity of the first, best, hit of query q
// against target t.
//
// Databases and searches run in a pool of workers, each blast call on
// one thread.
package identmat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/fastaio"
	"github.com/andrew-torda/pairmat/pkg/hits"
	"github.com/andrew-torda/pairmat/pkg/pairs"
	"github.com/andrew-torda/pairmat/pkg/progress"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// Config is filled in from the command line.
type Config struct {
	Fasta    string
	Out      string // defaults to Fasta + "_ident.tsv"
	Workdir  string // empty means make a new one
	Workers  int
	Blast    blast.Config
	Fill     scoremat.Fill
	Clean    bool
	FailFast bool
	Progress bool
}

// DfltConfig has no limit on target sequences and single threaded
// blast calls. Parallelism comes from the workers.
func DfltConfig() Config {
	b := blast.DfltConfig
	b.MaxTargetSeqs = 0
	b.Threads = 1
	return Config{
		Workers: 2,
		Blast:   b,
		Fill:    scoremat.FillHundred,
	}
}

// OutName is the default output table.
func OutName(fasta string) string { return fasta + "_ident.tsv" }

// NewWorkdir is a fresh work directory name in the current directory.
func NewWorkdir() string { return "blast_matrix_tmp_" + uuid.NewString()[:8] }

func dbName(r *fastaio.Record) string { return r.Path + ".db" }

func searchOut(dir string, q, t *fastaio.Record) string {
	return filepath.Join(dir, fastaio.SafeName(q.ID)+"+"+fastaio.SafeName(t.ID)+"_blast")
}

// Run builds the matrix. The work directory is left in place unless
// cfg.Clean is set.
func Run(ctx context.Context, cfg *Config, rnr blast.Runner, lg *common.Logger) (*scoremat.Matrix, []scoremat.Result, error) {
	if cfg.Workdir == "" {
		cfg.Workdir = NewWorkdir()
	}
	if err := os.MkdirAll(cfg.Workdir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("making work directory: %w", err)
	}
	if cfg.Clean {
		defer func() {
			if err := os.RemoveAll(cfg.Workdir); err != nil {
				lg.Warnf("removing %s: %v", cfg.Workdir, err)
			}
		}()
	}

	alpha := fastaio.Alphabet(cfg.Blast.Program == blast.Blastn)
	recs, err := fastaio.SplitRecords(cfg.Fasta, cfg.Workdir, alpha)
	if err != nil {
		return nil, nil, err
	}
	lg.Infof("%s sequences read from %s", humanize.Comma(int64(len(recs))), cfg.Fasta)
	ids := make([]string, len(recs))
	byID := make(map[string]*fastaio.Record, len(recs))
	for i := range recs {
		ids[i] = recs[i].ID
		byID[recs[i].ID] = &recs[i]
	}
	prs, err := pairs.Permutations(ids)
	if err != nil {
		return nil, nil, err
	}
	m, err := scoremat.New(ids)
	if err != nil {
		return nil, nil, err
	}
	iv := blast.NewInvoker(&cfg.Blast, rnr, nil, lg)
	start := time.Now()

	dbJobs := make([]blast.Job, len(recs))
	for i := range recs {
		r := &recs[i]
		dbJobs[i] = func(ctx context.Context) error { return iv.MakeDB(ctx, r.Path, dbName(r)) }
	}
	dbErr := make(map[string]error)
	for i, err := range blast.Pool(ctx, cfg.Workers, dbJobs, nil) {
		if err != nil {
			if cfg.FailFast {
				return nil, nil, err
			}
			lg.Warnf("%v", err)
			dbErr[recs[i].ID] = err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	lg.Infof("running %s %s searches on %d workers",
		humanize.Comma(int64(len(prs))), cfg.Blast.Program, cfg.Workers)
	bar := progress.New(len(prs), string(cfg.Blast.Program)+":", cfg.Progress, nil)
	jobs := make([]blast.Job, len(prs))
	for i, p := range prs {
		q, t := byID[p.A], byID[p.B]
		jobs[i] = func(ctx context.Context) error {
			if err := dbErr[t.ID]; err != nil {
				return fmt.Errorf("no database for %s: %w", t.ID, err)
			}
			return iv.Search(ctx, q.Path, dbName(t), searchOut(cfg.Workdir, q, t))
		}
	}
	errs := blast.Pool(ctx, cfg.Workers, jobs, bar.Tick)
	bar.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	lg.Infof("searches finished in %s", time.Since(start).Round(time.Second))

	results := make([]scoremat.Result, len(prs))
	nEmpty := 0
	for i, p := range prs {
		res := scoremat.Result{Row: p.A, Col: p.B, Err: errs[i]}
		if res.Err == nil {
			v, err := hits.FirstIdentityFile(searchOut(cfg.Workdir, byID[p.A], byID[p.B]))
			switch {
			case errors.Is(err, hits.ErrNoAlignment):
				nEmpty++
			case err != nil:
				res.Err = err
			default:
				res.Val, res.Ok = v, true
			}
		}
		results[i] = res
	}
	if nEmpty > 0 {
		lg.Infof("%d searches found no alignment", nEmpty)
	}
	if _, err := m.Absorb(results, cfg.FailFast, lg); err != nil {
		return nil, results, err
	}
	return m, results, nil
}
