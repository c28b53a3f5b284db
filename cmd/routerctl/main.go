// Command routerctl loads a router definition and exercises it from the
// command line: validating files, resolving URLs, generating event URLs,
// rendering the tree and serving the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
