// 31 July 2020

// Package randseq writes random protein sequences in fasta format.
// It is used to make test inputs of known size.
package randseq

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sync"
)

var letters = []byte("ACDEFGHIKLMNPQRSTVWY")

// getseq returns a byte slice with a random sequence in it
func getseq(seqlen int, rnd *rand.Rand) []byte {
	ret := make([]byte, seqlen)
	l := int32(len(letters))
	for i := range ret {
		ret[i] = letters[rnd.Int31n(l)]
	}
	return ret
}

// RandSeqArgs is the set of arguments passed to the main function
type RandSeqArgs struct {
	Iseed int64     // random number seed
	Wrtr  io.Writer // where we write to
	Cmmt  string    // Prefix for sequence ids
	Nseq  int       // number of sequences
	Len   int       // Length of sequences
	Width int       // line width, 0 for one line per sequence
}

// writeseq takes sequences from the channel, adds a comment and writes
// them. Sequence n gets the id "Cmmt_n", so ids are unique within a file.
func writeseq(sChan <-chan []byte, args *RandSeqArgs, err *error, wg *sync.WaitGroup) {
	defer wg.Done()
	w := bufio.NewWriter(args.Wrtr)
	width := len(fmt.Sprintf("%d", args.Nseq))
	var i int
	for s := range sChan {
		i++
		if *err != nil {
			continue // drain
		}
		fmt.Fprintf(w, ">%s_%0*d random\n", args.Cmmt, width, i)
		for len(s) > 0 {
			n := len(s)
			if args.Width > 0 && n > args.Width {
				n = args.Width
			}
			w.Write(s[:n])
			w.WriteByte('\n')
			s = s[n:]
		}
	}
	if e := w.Flush(); e != nil && *err == nil {
		*err = e
	}
}

// RandSeqMain writes random sequences to args.Wrtr. The same seed
// gives the same sequences.
func RandSeqMain(args *RandSeqArgs) error {
	var wg sync.WaitGroup
	var err error
	rnd := rand.New(rand.NewSource(args.Iseed))
	sChan := make(chan []byte)
	wg.Add(1)
	go writeseq(sChan, args, &err, &wg)
	for i := 0; i < args.Nseq; i++ {
		sChan <- getseq(args.Len, rnd)
	}
	close(sChan)
	wg.Wait()
	return err
}
