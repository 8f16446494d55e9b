package main

import (
	"fmt"
	"os"

	"github.com/iudanet/brainrot/internal/client/cli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	root := cli.NewRootCommand(versionString())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionString() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)
}
