package main

import (
	"os"

	"github.com/smallnest/wxhook/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
