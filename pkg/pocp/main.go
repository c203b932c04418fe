package pocp

import (
	"context"
	"fmt"
	"os"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// writeOut writes the table to cfg.Out.
func writeOut(m *scoremat.Matrix, cfg *Config) error {
	fp, err := os.Create(cfg.Out)
	if err != nil {
		return err
	}
	rep := scoremat.POCPReport
	rep.Lower = cfg.Lower
	if err := m.WriteTable(fp, &rep); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// Mymain runs the whole calculation and returns the exit code. Failed
// comparisons do not change the exit code unless FailFast is set.
func Mymain(ctx context.Context, cfg *Config, rnr blast.Runner, lg *common.Logger) int {
	m, results, err := Run(ctx, cfg, rnr, lg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return common.ExitFailure
	}
	if err := writeOut(m, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal: writing table:", err)
		return common.ExitFailure
	}
	nFail := 0
	for _, r := range results {
		if r.Err != nil {
			nFail++
		}
	}
	if nFail > 0 {
		lg.Warnf("%d of %d pairs failed, their cells are empty", nFail, len(results))
	}
	if cfg.Clean {
		if err := Clean(cfg.InDir); err != nil {
			lg.Warnf("cleaning up: %v", err)
		}
	}
	lg.Infof("done.")
	return common.ExitSuccess
}
