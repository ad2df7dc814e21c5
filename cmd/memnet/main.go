package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/quietfold/memnet/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
