// Command roamly catalogs a library of map images.
package main

import (
	"os"

	"github.com/roamly/roamly/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
