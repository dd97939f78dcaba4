// Command neuroxc is the NeuroX robot language front end.
package main

import (
	stderrors "errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !stderrors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
