// Package main is the entrypoint of the adwarden command line
package main

import "adwarden/internal/cli"

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cli.Execute(version)
}
