package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage reads source images and writes optimized output on the local
// filesystem. Relative names are resolved against BasePath; absolute names
// are used as-is.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

func (l *LocalStorage) resolve(name string) string {
	if filepath.IsAbs(name) || l.BasePath == "" {
		return name
	}
	return filepath.Join(l.BasePath, name)
}

// Load returns the file contents and the base name used as the item identifier.
func (l *LocalStorage) Load(name string) ([]byte, string, error) {
	fullPath := l.resolve(name)

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("could not read file %s: %w", fullPath, err)
	}
	return data, filepath.Base(fullPath), nil
}

// Save writes data to name, creating parent directories, and returns the full path.
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	fullPath := l.resolve(name)

	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("could not create folder: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write file: %w", err)
	}
	return fullPath, nil
}
