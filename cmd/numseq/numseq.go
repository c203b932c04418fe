// 3 Aug 2020

// Open files and count the number of ">" characters at the start of a
// line. This is the number of sequences, and is what pocp uses for the
// size of a proteome. Gzipped files are fine.

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrew-torda/pairmat/pkg/numseq"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

func main() {
	ret := common.ExitSuccess
	cmd := &cobra.Command{
		Use:   "numseq FILE...",
		Short: "Count the sequences in fasta files",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
			var total int64
			for _, fname := range args {
				n, err := numseq.Count(fname)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					ret = common.ExitFailure
					continue
				}
				total += int64(n)
				fmt.Printf("%s\t%s\n", fname, humanize.Comma(int64(n)))
			}
			if len(args) > 1 {
				fmt.Printf("total\t%s\n", humanize.Comma(total))
			}
		},
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
