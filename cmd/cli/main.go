// Package main is the entry point for the molhub CLI binary.
package main

import (
	"os"

	cli "moleculehub/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
