package main

import (
	"os"

	"github.com/joho/godotenv"

	"finsight/internal/cli"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
