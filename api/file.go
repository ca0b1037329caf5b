// Package api contains the versioned configuration file kinds and the file
// helpers they share.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/lintcfg/pkg/yaml"
)

// AppName names the per-user configuration directory.
const AppName = "lintcfg"

const (
	dirMode  = 0o700
	fileMode = 0o600
)

var (
	ErrIsDirectory     = errors.New("path is a directory")
	ErrUnknownFileType = errors.New("unknown file state")
)

// GetConfigPath returns the path of filename inside the user's lintcfg
// config directory: $XDG_CONFIG_HOME/lintcfg, then ~/.config/lintcfg, then
// a directory under [os.TempDir].
func GetConfigPath(filename string) string {
	dir, err := userConfigDir()
	if err == nil {
		return filepath.Join(dir, AppName, filename)
	}

	tmp := filepath.Join(os.TempDir(), AppName, filename)
	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", tmp),
		slog.Any("error", err),
	)

	return tmp
}

func userConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)
	}

	return filepath.Join(home, ".config"), nil
}

// regularFileExists reports whether path is an existing regular file.
// It returns an error for directories and other non-regular files.
func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat file: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	case !info.Mode().IsRegular():
		return false, fmt.Errorf("%s: %w", path, ErrUnknownFileType)
	}

	return true, nil
}

// ReadFile reads the regular file at path.
func ReadFile(path string) ([]byte, error) {
	ok, err := regularFileExists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("read file: %w", fs.ErrNotExist)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is provided by the user.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// MarshalYAML serializes an object to YAML bytes.
func MarshalYAML(obj any) ([]byte, error) {
	return yaml.Marshal(obj) //nolint:wrapcheck // Already wrapped.
}

// WriteIfNotExists writes data to path, creating parent directories, unless
// a regular file is already there.
func WriteIfNotExists(path string, data []byte) error {
	exists, err := regularFileExists(path)
	if err != nil || exists {
		return err
	}

	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), dirMode)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, fileMode)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// FindConfigFile looks for any of fileNames in targetPath (or its directory,
// when targetPath is a file) and then in each parent up to the filesystem
// root. Earlier names win within a directory.
//
// It returns an empty string when nothing is found.
func FindConfigFile(targetPath string, fileNames []string) (string, error) {
	dir, err := startDir(targetPath)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}

		dir = parent
	}
}

func startDir(targetPath string) (string, error) {
	abs, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	if info.IsDir() {
		return abs, nil
	}

	return filepath.Dir(abs), nil
}

// WriteDefaultFile writes defaultData to path unless a file already exists.
// With force, an existing file is first renamed to a timestamped
// "<name>.<nanos>.old" backup next to it. The kind names the file in logs
// and errors.
func WriteDefaultFile(path string, defaultData []byte, force bool, kind string) error {
	exists, err := regularFileExists(path)
	if err != nil {
		return err
	}

	if exists && !force {
		slog.Debug("file already exists, skipping write",
			slog.String("type", kind),
			slog.String("path", path),
		)

		return nil
	}

	if exists {
		err = backup(path, kind)
		if err != nil {
			return err
		}
	}

	slog.Info("write default file",
		slog.String("type", kind),
		slog.String("path", path),
	)

	err = writeFile(path, defaultData)
	if err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}

	return nil
}

func backup(path, kind string) error {
	name := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
	dst := filepath.Join(filepath.Dir(path), name)

	slog.Info("backing up existing file",
		slog.String("type", kind),
		slog.String("path", dst),
	)

	err := os.Rename(path, dst)
	if err != nil {
		return fmt.Errorf("rename existing %s file to backup: %w", kind, err)
	}

	return nil
}
