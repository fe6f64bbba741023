// Package main is the entry point for the cartcheckout CLI application.
// It provides terminal access to the cart reservation service.
package main

import (
	"cartcheckout/cli/cmd"
)

func main() {
	cmd.Execute()
}
