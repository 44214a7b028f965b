package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/subosito/gotenv"
)

// DefaultEnvFile is read by the CLI when no --env-file is given.
const DefaultEnvFile = ".env"

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables already set are never overridden. A missing file is
// only an error when required is set.
func LoadEnvFile(path string, required bool) (bool, error) {
	if path == "" {
		return false, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to read env file %s", path)
	}

	if err := gotenv.Load(path); err != nil {
		return false, errors.Wrapf(err, "failed to load env file %s", path)
	}

	return true, nil
}
