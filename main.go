package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jmllr/ytsnap/cmd"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
