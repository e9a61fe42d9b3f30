package main

import (
	"os"

	"github.com/chargeway/chargeway/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
