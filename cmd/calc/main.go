// Command calc evaluates calculations from the terminal and manages the
// shared calculation history.
package main

import (
	"fmt"
	"os"

	"github.com/warp/calc-engine/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
