package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-wikithread/cmd/wikithread/internal/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wikithread: %v\n", err)
		os.Exit(1)
	}
}
