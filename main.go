package main

import (
	"os"

	"github.com/spigell/ai-recruiter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
