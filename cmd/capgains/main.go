package main

import (
	"os"

	"github.com/ewanross/capgains/cmd/capgains/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
