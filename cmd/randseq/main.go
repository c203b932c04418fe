// 31 July 2020

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/pairmat/pkg/randseq"
	"github.com/andrew-torda/pairmat/pkg/seq/common"
)

func main() {
	const iseed int64 = 1637
	args := randseq.RandSeqArgs{Iseed: iseed, Cmmt: "r", Width: 60}
	ret := common.ExitSuccess

	cmd := &cobra.Command{
		Use:   "randseq [flags] fname nseq length",
		Short: "Write random protein sequences",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, pos []string) error {
			cmd.SilenceUsage = true
			const emsg = "failed converting %s to positive integer"
			nseq, err := strconv.ParseUint(pos[1], 10, 32)
			if err != nil || nseq == 0 {
				return fmt.Errorf(emsg, pos[1])
			}
			nlen, err := strconv.ParseUint(pos[2], 10, 32)
			if err != nil || nlen == 0 {
				return fmt.Errorf(emsg, pos[2])
			}
			args.Nseq, args.Len = int(nseq), int(nlen)

			if fname := pos[0]; fname == "-" || fname == "" {
				args.Wrtr = os.Stdout
			} else {
				ft, err := os.Create(fname)
				if err != nil {
					fmt.Fprintln(os.Stderr, "File for output:", err)
					ret = common.ExitFailure
					return nil
				}
				defer ft.Close()
				args.Wrtr = ft
			}
			if err := randseq.RandSeqMain(&args); err != nil {
				fmt.Fprintln(os.Stderr, err)
				ret = common.ExitFailure
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64VarP(&args.Iseed, "seed", "r", iseed, "random number seed")
	f.StringVarP(&args.Cmmt, "prefix", "c", args.Cmmt, "prefix for sequence ids")
	f.IntVarP(&args.Width, "width", "w", args.Width, "line width, 0 for one line per sequence")

	if err := cmd.Execute(); err != nil {
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
