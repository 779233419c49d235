// occ converts between Chinese script variants.
// One binary: local conversion, dictionary import, and an optional daemon.
package main

import (
	"os"

	"github.com/corey/occ/cmd/occ/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
