package main

import (
	"os"

	"github.com/contexture-ai/contexture/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
