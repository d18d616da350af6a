package main

import (
	"fmt"
	"os"

	"github.com/micferr/intensive-computation-2020/internal/dumpio"
)

func cmdInspect() {
	fs := newFlags("inspect")
	in := fs.String("in", "", "problem file (.yaml)")
	dump := fs.String("dump", "", "dump file written by export")
	fs.parse()
	if *dump != "" {
		hdr, text, err := dumpio.Read(*dump)
		must(0, err)
		fmt.Printf("# %s, %d bytes, %d chunks verified\n", hdr.Comp, hdr.Size, len(hdr.Hashes))
		os.Stdout.Write(text)
		return
	}
	p := loadProblem("inspect", *in)
	m := buildCSR5(p)
	must(0, m.Dump(os.Stdout))
	fmt.Printf("checksum: %016x\n", m.Checksum())
}
