// Command graphclone benchmarks and demonstrates the graph cloner.
package main

import (
	"fmt"
	"os"

	"graph-cloner/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
