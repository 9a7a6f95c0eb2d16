package main

import (
	"os"

	"github.com/soundprediction/predicato-agent/cmd/predicatoagent"
)

func main() {
	if err := predicatoagent.Execute(); err != nil {
		os.Exit(1)
	}
}
