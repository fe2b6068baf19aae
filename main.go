package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const releaseVersion = "1.0.0"

func main() {
	// Optional .env file; real environment variables win.
	_ = godotenv.Load()

	cobra.CheckErr(newRootCmd().Execute())
}
