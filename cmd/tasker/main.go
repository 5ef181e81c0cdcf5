package main

import (
	"os"

	"tasker/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:], nil); err != nil {
		os.Exit(1)
	}
}
