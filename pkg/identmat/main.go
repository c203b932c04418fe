package identmat

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

func writeOut(m *scoremat.Matrix, cfg *Config) error {
	fp, err := os.Create(cfg.Out)
	if err != nil {
		return err
	}
	rep := scoremat.IdentReport
	rep.Fill = cfg.Fill
	if err := m.WriteTable(fp, &rep); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// Mymain runs everything, writes the table and prints statistics to
// stdout. It returns the exit code.
func Mymain(ctx context.Context, cfg *Config, rnr blast.Runner, stdout io.Writer, lg *common.Logger) int {
	if cfg.Out == "" {
		cfg.Out = OutName(cfg.Fasta)
	}
	m, _, err := Run(ctx, cfg, rnr, lg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return common.ExitFailure
	}
	if st, ok := m.Stats(); ok {
		if err := st.Write(stdout, "Identity"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return common.ExitFailure
		}
	} else {
		lg.Warnf("no pair of sequences could be aligned")
	}
	if err := writeOut(m, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal: writing table:", err)
		return common.ExitFailure
	}
	lg.Infof("matrix written to %s", cfg.Out)
	return common.ExitSuccess
}
