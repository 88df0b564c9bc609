// Toppers - SSLC Electric Current question bank
package main

import (
	"os"

	"github.com/rahulpattadi/toppers/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
