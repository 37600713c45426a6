// Package main is the entry point for calendate, the command-line front end
// of the date parser.
package main

import (
	"runtime/debug"

	"github.com/keyxmakerx/chronicle-dates/internal/cli"
)

// Version may be set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	cli.SetVersion(v)
	cli.Execute()
}
