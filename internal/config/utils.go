package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/sleuth/internal/constants"
)

func GetConfigDir(homeDir string) string {
	return filepath.Join(homeDir, constants.ConfigDir)
}

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists creates an empty config file on first run and checks
// that the resulting config can be loaded.
func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	if _, err := Load(homeDir); err != nil {
		return &ConfigInitError{msg: fmt.Sprintf("failed to load config: %v", err)}
	}

	return nil
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("'%s'", v)
	}

	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
