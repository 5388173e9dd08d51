// Package main is the entry point for the ctxpack CLI.
package main

import "github.com/corvidwave/ctxpack/cmd"

func main() {
	cmd.Execute()
}
