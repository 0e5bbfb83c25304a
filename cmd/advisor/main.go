package main

import (
	"os"

	"MarketAdvisor/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
