package cli

import (
	"os"

	"github.com/joho/godotenv"
)

// envFileEnvVar lets a caller point at a specific .env-style file instead of
// the default "./.env" godotenv.Load() looks for.
const envFileEnvVar = "STICKERSHEET_ENV_FILE"

// LoadConfig loads an optional .env file before any subcommand reads its
// environment variables, grounded on terminal_preview.go's
// init() { godotenv.Load() } in the teacher. Unlike the teacher, the error is
// not silently dropped by the caller: LoadConfig reports it so a malformed
// (as opposed to merely absent) .env file is visible, while a missing
// default ./.env is not an error. A file named by STICKERSHEET_ENV_FILE is
// different: if it cannot be read, that error is returned.
func LoadConfig() error {
	if path := os.Getenv(envFileEnvVar); path != "" {
		if err := LoadDotEnv(path); err != nil {
			return err
		}
		return nil
	}

	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
