package main

import (
	"os"

	"github.com/AidanDelaney/reborn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
