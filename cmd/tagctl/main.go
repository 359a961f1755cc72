// Package main provides the entry point for the tagctl CLI tool.
package main

import (
	"github.com/plonetools/tagctl/cmd/tagctl/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
