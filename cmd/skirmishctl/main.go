package main

import (
	"github.com/joho/godotenv"

	"github.com/calram/skirmish/internal/cli"
)

func main() {
	// .env is optional; flags and environment variables take precedence
	_ = godotenv.Load()

	cli.Execute()
}
