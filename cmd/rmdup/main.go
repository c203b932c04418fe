// 18 Oct 2026

// rmdup reads fasta files and writes each record once to stdout.
// Records are the same if they have the same description line (--id)
// or the same sequence (--seq).
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrew-torda/pairmat/pkg/fastaio"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

func main() {
	var byID, bySeq, nucl bool
	ret := common.ExitSuccess

	cmd := &cobra.Command{
		Use:   "rmdup (--id | --seq) FILE...",
		Short: "Remove duplicate fasta records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if byID == bySeq {
				return fmt.Errorf("give exactly one of --id and --seq")
			}
			key := fastaio.ByID
			if bySeq {
				key = fastaio.BySeq
			}
			w := bufio.NewWriter(os.Stdout)
			nOut, nDrop, err := fastaio.Dedup(args, key, fastaio.Alphabet(nucl), w)
			if err == nil {
				err = w.Flush()
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				ret = common.ExitFailure
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s records written, %s duplicates dropped\n",
				humanize.Comma(int64(nOut)), humanize.Comma(int64(nDrop)))
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&byID, "id", false, "records with the same description line are duplicates")
	f.BoolVar(&bySeq, "seq", false, "records with the same sequence are duplicates")
	f.BoolVar(&nucl, "nucl", false, "sequences are nucleotides")
	cmd.MarkFlagsMutuallyExclusive("id", "seq")

	if err := cmd.Execute(); err != nil {
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
