package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/gojobs/internal/bootstrap"
)

func main() {
	if err := bootstrap.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "gojobs: %v\n", err)
		os.Exit(1)
	}
}
