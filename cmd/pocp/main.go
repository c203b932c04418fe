// 17 Oct 2026

// pocp calculates the percentage of conserved proteins between every
// pair of proteomes in a directory and writes a tab separated matrix.
//
//	pocp -i proteomes -o pocp.tsv -n 8
//
// blastp and makeblastdb from BLAST+ must be on the path.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/pocp"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// newCmd builds the command. The exit code of a run goes in *ret.
func newCmd(cfg *pocp.Config, ret *int) *cobra.Command {
	vbsty := common.VbstyNormal
	cmd := &cobra.Command{
		Use:   "pocp -i DIR -o OUT",
		Short: "Percentage of conserved proteins between all pairs of genomes",
		Long: `Percentage of conserved proteins between all pairs of genomes

Every file in the input directory with the suffix (-x) is one proteome.
Each pair is searched in both directions with blastp. A protein counts as
conserved if its hit has at least --min-ident percent identity over at
least --min-cov of its length. Pairs with no conserved proteins are
written as ~.

Databases (*_POCP.p??) and blast output (*.POCPout) are left in the input
directory and reused next time, unless --clean is given.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if cfg.Blast.Threads < 1 {
				return fmt.Errorf("threads must be at least 1, not %d", cfg.Blast.Threads)
			}
			if err := blast.Available(cfg.Blast.Program); err != nil {
				fmt.Fprintln(os.Stderr, err)
				*ret = common.ExitFailure
				return nil
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			lg := common.NewLogger(os.Stderr, "pocp: ", vbsty)
			*ret = pocp.Mymain(ctx, cfg, nil, lg)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.InDir, "input", "i", "", "directory with one proteome per file")
	f.StringVarP(&cfg.Out, "output", "o", "", "output table")
	f.IntVarP(&cfg.Blast.Threads, "threads", "n", cfg.Blast.Threads, "threads for each blastp call")
	f.StringVarP(&cfg.Suffix, "suffix", "x", cfg.Suffix, "suffix of the proteome files")
	f.Float64Var(&cfg.Blast.Evalue, "evalue", cfg.Blast.Evalue, "blastp e-value cutoff")
	f.Float64Var(&cfg.Thresh.MinIdent, "min-ident", cfg.Thresh.MinIdent, "minimum percent identity of a conserved hit")
	f.Float64Var(&cfg.Thresh.MinCov, "min-cov", cfg.Thresh.MinCov, "minimum query coverage of a conserved hit")
	f.BoolVar(&cfg.Clean, "clean", false, "remove databases and blast output when finished")
	f.BoolVar(&cfg.Lower, "lower", false, "only write the lower triangle")
	f.BoolVar(&cfg.FailFast, "fail-fast", false, "stop at the first failed comparison")
	f.BoolVar(&cfg.VerifyCache, "verify-cache", false, "only reuse files made from the same input and settings")
	f.BoolVar(&cfg.Progress, "progress", false, "show a progress bar")
	f.IntVarP(&vbsty, "verbosity", "v", vbsty, "0 quiet, 1 normal, 3 debug")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	f.SortFlags = false
	return cmd
}

func main() {
	cfg := pocp.DfltConfig()
	ret := common.ExitSuccess
	if err := newCmd(&cfg, &ret).Execute(); err != nil {
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
