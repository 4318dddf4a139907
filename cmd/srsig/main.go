// Package main provides the entry point for the srsig CLI.
package main

import (
	"context"
	"os"

	"github.com/f3rmion/sr/internal/cli"
)

var (
	version = ""
	commit  = ""
)

func main() {
	if err := cli.Execute(context.Background(), cli.BuildInfo{Version: version, Commit: commit}); err != nil {
		os.Exit(1)
	}
}
