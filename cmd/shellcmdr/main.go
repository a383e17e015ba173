package main

import (
	"fmt"
	"os"

	"github.com/shellcmdr/shellcmdr/internal/cmd"
)

var (
	commit = "none"
	date   = "unknown"
)

func main() {
	if err := cmd.Execute(commit, date); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
