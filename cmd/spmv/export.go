package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/micferr/intensive-computation-2020/internal/dumpio"
)

// Export writes the diagnostic dump of a problem's CSR5 matrix to a file.
func cmdExport() {
	fs := newFlags("export")
	in := fs.String("in", "", "problem file (.yaml)")
	out := fs.String("out", "", "output dump file")
	comp := fs.String("comp", "zstd", "compression: raw, zstd or lz4")
	chunk := fs.Int("chunk", dumpio.DefaultChunk, "checksum chunk size in bytes")
	fs.parse()
	if *in == "" || *out == "" {
		fmt.Println("usage: spmv export --in problem.yaml --out file [--comp zstd]")
		os.Exit(1)
	}
	c := must(dumpio.ParseComp(*comp))
	m := buildCSR5(loadProblem("export", *in))
	var buf bytes.Buffer
	must(0, m.Dump(&buf))
	must(0, dumpio.Write(*out, buf.Bytes(), c, *chunk))
	fmt.Println("wrote", *out)
}
