// 18 Oct 2026

// fasplit breaks a fasta file into pieces, either a given number of
// pieces or a given number of sequences per piece. Pieces are called
// <base>.p-<k><ext>.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrew-torda/pairmat/pkg/fastaio"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

func main() {
	var in, outdir string
	var nParts, perFile int
	var nucl bool
	ret := common.ExitSuccess

	cmd := &cobra.Command{
		Use:   "fasplit -i FASTA (-n PARTS | -s SEQS)",
		Short: "Split a fasta file into pieces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if (nParts > 0) == (perFile > 0) {
				return fmt.Errorf("give exactly one of -n and -s")
			}
			if outdir == "" {
				outdir = filepath.Dir(in)
			}
			if nParts > 0 {
				var err error
				if perFile, err = fastaio.PerFile(in, nParts); err != nil {
					fmt.Fprintln(os.Stderr, err)
					ret = common.ExitFailure
					return nil
				}
			}
			names, err := fastaio.Split(in, outdir, perFile, fastaio.Alphabet(nucl))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				ret = common.ExitFailure
				return nil
			}
			fmt.Fprintf(os.Stderr, "wrote %s files with up to %s sequences each\n",
				humanize.Comma(int64(len(names))), humanize.Comma(int64(perFile)))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in, "input", "i", "", "fasta file, may be gzipped")
	f.StringVarP(&outdir, "outdir", "o", "", "where the pieces go (default next to the input)")
	f.IntVarP(&nParts, "parts", "n", 0, "number of pieces")
	f.IntVarP(&perFile, "seqs", "s", 0, "sequences per piece")
	f.BoolVar(&nucl, "nucl", false, "sequences are nucleotides")
	cmd.MarkFlagRequired("input")
	f.SortFlags = false

	if err := cmd.Execute(); err != nil {
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
