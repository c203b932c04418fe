// 18 Oct 2026

// blastmat aligns every sequence of a fasta file against every other
// with blast and writes the percent identities as a matrix. Row is the
// query, column the target. Some statistics go to stdout.
//
//	blastmat -i seqs.faa -t 8 --progress
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/pairmat/pkg/blast"
	"github.com/andrew-torda/pairmat/pkg/identmat"
	"github.com/andrew-torda/pairmat/pkg/scoremat"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

// newCmd builds the command. The exit code of a run goes in *ret.
func newCmd(cfg *identmat.Config, ret *int) *cobra.Command {
	vbsty := common.VbstyNormal
	var program, fill string

	cmd := &cobra.Command{
		Use:   "blastmat -i FASTA",
		Short: "All against all blast identity matrix",
		Long: `All against all blast identity matrix

Each sequence is written to its own file in a work directory and gets its
own database. Every ordered pair is searched and the identity of the best
hit goes in the matrix. Pairs with no alignment are written as 100 by
default, or ~ with --fill marker.

Give --workdir to keep the work directory between runs. Finished searches
are then not repeated.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			var err error
			if cfg.Blast.Program, err = blast.ParseProgram(program); err != nil {
				return err
			}
			if cfg.Fill, err = scoremat.ParseFill(fill); err != nil {
				return err
			}
			if cfg.Workers < 1 {
				return fmt.Errorf("threads must be at least 1, not %d", cfg.Workers)
			}
			if err := blast.Available(cfg.Blast.Program); err != nil {
				fmt.Fprintln(os.Stderr, err)
				*ret = common.ExitFailure
				return nil
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			lg := common.NewLogger(os.Stderr, "blastmat: ", vbsty)
			*ret = identmat.Mymain(ctx, cfg, nil, os.Stdout, lg)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.Fasta, "input", "i", "", "fasta file with the sequences")
	f.StringVarP(&cfg.Out, "output", "o", "", "output table (default input + _ident.tsv)")
	f.IntVarP(&cfg.Workers, "threads", "t", cfg.Workers, "number of blast jobs run at once")
	f.StringVarP(&program, "program", "p", string(blast.Blastp), "blastp or blastn")
	f.StringVar(&cfg.Workdir, "workdir", "", "work directory (default a new blast_matrix_tmp_*)")
	f.Float64Var(&cfg.Blast.Evalue, "evalue", cfg.Blast.Evalue, "blast e-value cutoff")
	f.StringVar(&fill, "fill", "hundred", "what to write for pairs with no alignment, hundred or marker")
	f.BoolVar(&cfg.Clean, "clean", false, "remove the work directory when finished")
	f.BoolVar(&cfg.FailFast, "fail-fast", false, "stop at the first failed search")
	f.BoolVar(&cfg.Progress, "progress", false, "show a progress bar")
	f.IntVarP(&vbsty, "verbosity", "v", vbsty, "0 quiet, 1 normal, 3 debug")
	cmd.MarkFlagRequired("input")
	f.SortFlags = false
	return cmd
}

func main() {
	cfg := identmat.DfltConfig()
	ret := common.ExitSuccess
	if err := newCmd(&cfg, &ret).Execute(); err != nil {
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
