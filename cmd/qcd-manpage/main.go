package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/qcd/cmd/qcd"
	"github.com/arthur-debert/qcd/internal/version"
)

func main() {
	header := &doc.GenManHeader{
		Title:   "QCD",
		Section: "1",
		Source:  "qcd " + version.Version,
		Manual:  "qcd manual",
	}

	if err := doc.GenMan(qcd.NewRootCmd(), header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
