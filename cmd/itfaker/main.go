// itfaker generates weighted random Italian first names.
package main

import (
	"os"

	"github.com/unkn0wn-root/itfaker/cmd/itfaker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
