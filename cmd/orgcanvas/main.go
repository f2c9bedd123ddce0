package main

import (
	"os"

	"github.com/campusgrid/orgcanvas/internal/cli"
	"github.com/campusgrid/orgcanvas/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
