package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
