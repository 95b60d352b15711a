package main

import (
	"fmt"
	"os"

	"github.com/nixpig/bindroot/internal/cli"
	"github.com/thediveo/gons"
)

func main() {
	// Setting gons_mnt=/proc/<pid>/ns/mnt runs the whole bind mount inside
	// that mount namespace.
	if err := gons.Status(); err != nil {
		os.Stderr.Write(
			fmt.Appendf(nil, "failed to join namespaces: %s\n", err),
		)
		os.Exit(1)
	}

	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
