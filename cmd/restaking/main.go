package main

import (
	"os"

	"github.com/conr2d/restaking/cmd/restaking/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
