// Command screener runs the convertible bond screening service.
package main

import (
	"fmt"
	"os"

	"github.com/ncobase/screener/cmd/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
