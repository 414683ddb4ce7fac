// Command shopassist is the conversational shopping assistant CLI.
package main

import (
	"os"

	"github.com/shopassist-labs/shopassist/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
