// Command storeadmin serves the store dashboard and edits its records from
// the terminal.
package main

import (
	"errors"
	"fmt"
	"os"
)

// errReported fails a command whose problem was already shown to the user.
var errReported = errors.New("already reported")

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "storeadmin:", err)
		}
		os.Exit(1)
	}
}
