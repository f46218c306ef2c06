package main

import (
	"os"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
