// Package registryfile implements the RegistryStore port as a JSON file.
package registryfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RegistryStore = (*Store)(nil)

// Store writes the registry to a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store that writes to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes registry to the store's path.
func (s *Store) Save(_ context.Context, registry *model.Registry) error {
	return Write(s.path, registry)
}

// Encode writes registry as two-space indented JSON followed by a newline.
// Key order follows the document structure; reviews keep insertion order.
func Encode(w io.Writer, registry *model.Registry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(registry); err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	return nil
}

// Write encodes registry to path, creating parent directories as needed.
// Nothing is written if encoding fails.
func Write(path string, registry *model.Registry) error {
	var buf bytes.Buffer
	if err := Encode(&buf, registry); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write registry %s: %w", path, err)
	}
	return nil
}

// Read loads a registry previously written by Write.
func Read(path string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var registry model.Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &registry, nil
}
