// The main package for the emailsift executable.
package main

import (
	"github.com/mfalzone/emailsift/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
