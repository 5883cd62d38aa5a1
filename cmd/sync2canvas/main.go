package main

import (
	"os"

	"github.com/josh-berg/sync2canvas/internal/cmd/root"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
