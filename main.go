// Package main is the entry point for the solvet CLI.
package main

import "solvet.dev/pkg/solvet/cmd"

func main() {
	cmd.Execute()
}
