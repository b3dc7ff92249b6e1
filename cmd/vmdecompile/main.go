// Command vmdecompile turns a stream of stack-machine VM commands back
// into structured pseudo-source.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "decompile":
		err = cmdDecompile(os.Args[2:])
	case "graph":
		err = cmdGraph(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		reportFatal(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `vmdecompile — stack-machine VM decompiler

Usage:
  vmdecompile decompile --in <file.vm> [--dot <dir>] [--callgraph <path>] [--max-steps <n>]
  vmdecompile graph      --in <file.vm> --out <dir>

Flags:
  --in <file>        Path to VM source
  --out <dir>        Output directory (graph)
  --dot <dir>        Write one <function>.dot CFG diagnostic per function (decompile)
  --callgraph <path> Write a whole-program call-graph dot to <path> (decompile)
  --max-steps <n>    Cap on dominator fixpoint iterations (0 = unbounded); structuring is not capped
`)
}
