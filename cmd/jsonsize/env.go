package main

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	envFileVar     = "JSONSIZE_ENV_FILE"
	defaultEnvFile = ".env"
)

// loadEnvFile loads variables from the dotenv file named by
// JSONSIZE_ENV_FILE, or .env in the working directory. A missing file is
// not an error, and variables already set in the environment win.
func loadEnvFile() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = defaultEnvFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(path)
}
