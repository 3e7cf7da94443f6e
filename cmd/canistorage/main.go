// Command canistorage serves a permissioned, hierarchical blob store over
// HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/toshio/canistorage/cmd/canistorage/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
