package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/micferr/intensive-computation-2020/internal/csr5"
	"github.com/micferr/intensive-computation-2020/internal/problem"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "demo":
		cmdDemo()
	case "apply":
		cmdApply()
	case "inspect":
		cmdInspect()
	case "export":
		cmdExport()
	case "verify":
		cmdVerify()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("spmv - sparse matrix × vector with CSR5 tiles")
	fmt.Println("usage: spmv <command> [args]")
	fmt.Println("  demo                                   run the built-in scenarios")
	fmt.Println("  apply   --in <problem.yaml>            multiply and print CSR5 and CSR results")
	fmt.Println("  inspect --in <problem.yaml> | --dump <file>  print the CSR5 internal arrays")
	fmt.Println("  export  --in <problem.yaml> --out <file> [--comp raw|zstd|lz4]  write a dump file")
	fmt.Println("  verify  --in <problem.yaml> [--runs N] cross-check CSR5 against CSR and a dense product")
}

// flags is a FlagSet with the options every command shares.
type flags struct {
	*flag.FlagSet
	verbose *bool
}

func newFlags(name string) *flags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &flags{FlagSet: fs, verbose: fs.Bool("v", false, "debug logging")}
}

func (f *flags) parse() {
	f.Parse(os.Args[2:])
	if *f.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		logrus.Fatal(err)
	}
	return v
}

func loadProblem(cmd, path string) *problem.Problem {
	if path == "" {
		fmt.Printf("usage: spmv %s --in problem.yaml\n", cmd)
		os.Exit(1)
	}
	return must(problem.Load(path))
}

func buildCSR5(p *problem.Problem) *csr5.Matrix[float64] {
	return must(csr5.New(p.Matrix, p.Rows, p.Cols, p.Omega, p.Sigma))
}

func printVector(label string, v []float64) {
	fmt.Print(label)
	for _, x := range v {
		fmt.Printf(" %v", x)
	}
	fmt.Println()
}
