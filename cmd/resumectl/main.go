package main

// Score and optimize resumes from the command line:
//   go run ./cmd/resumectl score resume.json
//   go run ./cmd/resumectl optimize resume.json --job job.txt --config engine.yaml

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
