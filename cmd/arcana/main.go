package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/arcana-app/arcana-go/internal/commands"
)

// version is set via ldflags: -X main.version=v1.0.0
var version = "dev"

func main() {
	// Local .env is optional; missing file is not an error.
	_ = godotenv.Load()

	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
