// Command dynexport hosts a dynamic record registry and drives it from a
// command script.
//
// Usage:
//
//	dynexport run [-f settings.yaml] [-s script]
//	dynexport version
package main

import (
	"os"

	"github.com/randalmurphal/dynexport/internal/cli"
)

// Version is populated via -ldflags "-X main.Version=...".
var Version string

func main() {
	cli.SetVersion(Version)
	os.Exit(cli.Run(os.Args[1:]))
}
