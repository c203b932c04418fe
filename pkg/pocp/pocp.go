// 17 Oct 2026

// Package pocp calculates the percentage of conserved proteins between
// every pair of proteomes in a directory (Qin et al. 2014,
// doi:10.1128/JB.01688-14). For genomes A and B,
//
//	POCP = (C_AB + C_BA) / (T_A + T_B) * 100
//
// where C_AB is the number of proteins of A with a conserved hit in B
// and T_A is the number of proteins in A. A hit is conserved if it has
// at least 40 % identity over at least half the query.
//
// Pairs are run one after the other. Each blastp call gets all the
// threads. Databases and blast output are written next to the input
// files and reused on the next run.
package pocp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/hits"
	"github.com/andrew-torda/pairmat/pkg/numseq"
	"github.com/andrew-torda/pairmat/pkg/pairs"
	"github.com/andrew-torda/pairmat/pkg/progress"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

const (
	dbSuffix  = "_POCP"
	outSuffix = ".POCPout"
)

// Config is everything the calculation needs. The command line
// fills it in.
type Config struct {
	InDir       string
	Suffix      string // input files end with this
	Out         string // output table
	Blast       blast.Config
	Thresh      hits.Thresh
	Clean       bool // remove databases and blast output at the end
	FailFast    bool // stop at the first failed comparison
	Lower       bool // only write the lower triangle
	VerifyCache bool // check reused files were made from the same input
	Progress    bool
}

// DfltConfig returns the settings of Qin et al.
func DfltConfig() Config {
	b := blast.DfltConfig
	b.Threads = 3
	return Config{
		Suffix: ".faa",
		Blast:  b,
		Thresh: hits.DfltThresh,
	}
}

// DBName is the blast database made from genome.
func DBName(genome string) string { return genome + dbSuffix }

// OutName is where the search of query against the database of target
// goes. It sits next to the query.
func OutName(query, target string) string {
	return query + "--" + filepath.Base(target) + outSuffix
}

// Inputs lists the genome files in dir. The order is that of
// filepath.Glob, which is sorted, so runs are reproducible.
func Inputs(dir, suffix string) ([]string, error) {
	if fi, err := os.Stat(dir); err != nil {
		return nil, err
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return filepath.Glob(filepath.Join(dir, "*"+suffix))
}

// calc holds what is shared across pairs.
type calc struct {
	cfg    *Config
	iv     *blast.Invoker
	counts *numseq.Cache
	lg     *common.Logger
}

// pairScore runs both directions of one pair and combines them.
func (c *calc) pairScore(ctx context.Context, a, b string) scoremat.Result {
	res := scoremat.Result{Row: filepath.Base(a), Col: filepath.Base(b), Symmetric: true}
	var conserved, total int
	var errs []error
	for _, d := range []pairs.Pair{{A: a, B: b}, {A: b, B: a}} {
		n, err := c.counts.Count(d.A)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += n
		out := OutName(d.A, d.B)
		if err := c.iv.Search(ctx, d.A, DBName(d.B), out); err != nil {
			errs = append(errs, err)
			continue
		}
		tly, err := hits.CountFile(out, c.cfg.Thresh)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if tly.Malformed > 0 {
			c.lg.Warnf("%s: skipped %d malformed records, first: %v", out, tly.Malformed, tly.FirstBad)
		}
		conserved += tly.Conserved
	}
	if len(errs) > 0 {
		res.Err = errors.Join(errs...)
		return res
	}
	if conserved == 0 || total == 0 {
		return res
	}
	res.Val = float64(conserved) / float64(total) * 100
	res.Ok = true
	return res
}

// Run calculates the matrix. It returns the matrix and the result of
// every pair. Failed comparisons leave empty cells unless FailFast is
// set, when the first failure is returned as an error.
func Run(ctx context.Context, cfg *Config, rnr blast.Runner, lg *common.Logger) (*scoremat.Matrix, []scoremat.Result, error) {
	genomes, err := Inputs(cfg.InDir, cfg.Suffix)
	if err != nil {
		return nil, nil, err
	}
	keys := make([]string, len(genomes))
	for i, g := range genomes {
		keys[i] = filepath.Base(g)
	}
	lg.Infof("%d genomes have been read.", len(genomes))
	prs, err := pairs.Combinations(genomes)
	if err != nil {
		return nil, nil, err
	}
	m, err := scoremat.New(keys)
	if err != nil {
		return nil, nil, err
	}

	var cache blast.Cache = blast.ExistCache{}
	if cfg.VerifyCache {
		cache = blast.StampCache{}
	}
	c := &calc{
		cfg:    cfg,
		iv:     blast.NewInvoker(&cfg.Blast, rnr, cache, lg),
		counts: numseq.NewCache(),
		lg:     lg,
	}

	start := time.Now()
	for _, g := range genomes {
		if err := c.iv.MakeDB(ctx, g, DBName(g)); err != nil {
			if cfg.FailFast {
				return nil, nil, err
			}
			lg.Warnf("%v", err)
		}
	}

	nSearch := int64(2 * len(prs))
	lg.Infof("running %s %s searches", humanize.Comma(nSearch), cfg.Blast.Program)
	bar := progress.New(int(nSearch), string(cfg.Blast.Program)+":", cfg.Progress, nil)
	results := make([]scoremat.Result, 0, len(prs))
	for _, p := range prs {
		if err := ctx.Err(); err != nil {
			bar.Wait()
			return nil, nil, err
		}
		r := c.pairScore(ctx, p.A, p.B)
		results = append(results, r)
		bar.Incr(2)
		if r.Err != nil && cfg.FailFast {
			break
		}
	}
	bar.Wait()
	lg.Infof("searches finished in %s", time.Since(start).Round(time.Second))

	if _, err := m.Absorb(results, cfg.FailFast, lg); err != nil {
		return nil, results, err
	}
	return m, results, nil
}

// Clean removes the databases and blast output we made in dir.
func Clean(dir string) error {
	patterns := []string{
		"*" + dbSuffix + ".p??",
		"*" + outSuffix,
		"*" + dbSuffix + ".p??" + blast.StampSuffix,
		"*" + outSuffix + blast.StampSuffix,
	}
	var errs []error
	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return err
		}
		for _, f := range matches {
			if err := os.Remove(f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
