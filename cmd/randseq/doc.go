// 31 July 2020

/*
Randseq is for making random protein sequences for testing the code.
Usage:

	randseq [options] fname nseq length

will generate nseq sequences of length length and write them to fname,
or stdout if fname is -.

Flags:

	-r
		random number seed
	-c
		prefix for the sequence ids, which are prefix_n
	-w
		line width

Put a few files made with different seeds and prefixes in a directory and
you have input for pocp. The sequences are random, so blastp will find
next to nothing, but the plumbing gets exercised.
*/
package main
