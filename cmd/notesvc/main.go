package main

import (
	"fmt"
	"os"

	"github.com/YoshitsuguKoike/notesvc/internal/interface/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "notesvc: %v\n", err)
		os.Exit(1)
	}
}
