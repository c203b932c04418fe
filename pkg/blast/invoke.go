package blast

import (
	"context"
	"errors"
	"os"

	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// DBFiles are the files whose presence says a database exists. We
// only look at the header file, like everybody else.
func DBFiles(db string, p Program) []string {
	if p == Blastn {
		return []string{db + ".nhr"}
	}
	return []string{db + ".phr"}
}

// Invoker runs makeblastdb and searches with one configuration.
type Invoker struct {
	Cfg   *Config
	Rnr   Runner
	Cache Cache
	Log   *common.Logger
}

// NewInvoker fills in the defaults for a nil runner or cache.
func NewInvoker(cfg *Config, rnr Runner, cache Cache, lg *common.Logger) *Invoker {
	if rnr == nil {
		rnr = ExecRunner{}
	}
	if cache == nil {
		cache = ExistCache{}
	}
	return &Invoker{Cfg: cfg, Rnr: rnr, Cache: cache, Log: lg}
}

// MakeDB builds the database db from fasta, unless it is there already.
func (iv *Invoker) MakeDB(ctx context.Context, fasta, db string) error {
	k := Key{Src: fasta, Files: DBFiles(db, iv.Cfg.Program), Params: "dbtype " + iv.Cfg.Program.DBType()}
	if iv.Cache.Fresh(k) {
		iv.Log.Debugf("reusing database %s", db)
		return nil
	}
	iv.Log.Debugf("makeblastdb %s", db)
	err := iv.Rnr.Run(ctx, "makeblastdb",
		"-in", fasta,
		"-dbtype", iv.Cfg.Program.DBType(),
		"-parse_seqids",
		"-out", db)
	if err != nil {
		return err
	}
	return iv.Cache.Commit(k)
}

// Search runs query against db writing to out. If out already exists it
// is taken as the result of an earlier run. If the search fails, any
// partial output is removed so the next run tries again.
func (iv *Invoker) Search(ctx context.Context, query, db, out string) error {
	k := Key{Src: query, Files: []string{out}, Params: iv.Cfg.params() + " db " + db}
	if iv.Cache.Fresh(k) {
		iv.Log.Debugf("reusing %s", out)
		return nil
	}
	iv.Log.Debugf("%s %s against %s", iv.Cfg.Program, query, db)
	if err := iv.Rnr.Run(ctx, string(iv.Cfg.Program), iv.Cfg.searchArgs(query, db, out)...); err != nil {
		if e := os.Remove(out); e != nil && !errors.Is(e, os.ErrNotExist) {
			iv.Log.Warnf("could not remove partial output %s: %v", out, e)
		}
		return err
	}
	return iv.Cache.Commit(k)
}
