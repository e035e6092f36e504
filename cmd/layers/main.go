// Command layers resolves configuration values from a type registry and
// directories of manifest fragments.
//
//	layers get Widget Colors --registry types.yaml --dir conf.d
//	layers order --dir conf.d
//	layers dump --dir conf.d
//	layers serve --config layers.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
