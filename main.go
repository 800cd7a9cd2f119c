// Mint relayer API server and command-line interface.
//
// The github.com/anader123/pmt package is the entrypoint to the signature-gated
// mint tooling. This package defines the structure of the relayer API and also
// defines the command-line interface that can be used to configure and start
// the API server, and to produce authority signatures for testing.

package main

import (
	"os"
)

func main() {
	if err := CreateRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
