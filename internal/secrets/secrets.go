// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads LLM provider keys from a local directory, normally
// .secrets/, so they stay out of config files and shell history. The file
// name is the key name; its trimmed contents are the value.
//
// Recognized files: openai-api-key, aliyun-model-key. Configured values and
// environment variables take precedence over these files.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key file names for the LLM providers.
const (
	OpenAIKey = "openai-api-key"
	AliyunKey = "aliyun-model-key"
)

// Load returns the non-empty secrets found in dir. A directory that does not
// exist yields an empty map. Hidden files and subdirectories are ignored; a
// file that cannot be read is logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		value, err := readSecret(filepath.Join(dir, name))
		if err != nil {
			if logger != nil {
				logger.Warn("skipping unreadable secret", "name", name, "error", err)
			}
			continue
		}
		if value != "" {
			found[name] = value
		}
	}
	return found, nil
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Names returns the key names in m, sorted. Values are never exposed.
func Names(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
