package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName = "forescout-tools"

	// FileName is the settings file name
	FileName = "config.yaml"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/forescout-tools or $HOME/.config/forescout-tools
//   - macOS: $HOME/.config/forescout-tools (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\forescout-tools
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file in the
// OS configuration directory.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// executableDir is replaced in tests
var executableDir = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ResolvePath picks the settings file: the explicit path when given, else
// config.yaml beside the executable when it exists, else the file in the
// OS configuration directory.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	if dir, err := executableDir(); err == nil {
		local := filepath.Join(dir, FileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	return GetConfigPath()
}

// Load reads settings from path. A missing or empty file yields empty
// settings so that the bootstrap can fill them in.
func Load(path string) (*Settings, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSettings(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := NewSettings()
	if len(bytes.TrimSpace(data)) == 0 {
		return settings, nil
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return settings, nil
}

// Save writes the settings to path.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# forescout-tools configuration
# Passwords are stored in clear text: keep this file private.
# Edit this file to change the appliance address or credentials.

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// WorkspaceDir returns the folder holding backups and logs: FS_WORKSPACE
// when set (relative to the settings file), else the settings file's folder.
func (s *Settings) WorkspaceDir(configPath string) string {
	base := filepath.Dir(configPath)
	if s.Workspace == "" {
		return base
	}
	if filepath.IsAbs(s.Workspace) {
		return s.Workspace
	}
	return filepath.Join(base, s.Workspace)
}
