package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes payloads under a root directory, one file per report
// run, namespaced by tenant. References look like
// "file://<tenant>/<report>/<name>".
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Put(_ context.Context, tenantID, reportID string, payload []byte) (string, error) {
	dir := filepath.Join(s.root, tenantID, reportID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create payload dir: %w", err)
	}
	name := "payload"
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	return fmt.Sprintf("file://%s/%s/%s", tenantID, reportID, name), nil
}

func (s *LocalStore) Get(_ context.Context, ref string) ([]byte, error) {
	rel, err := splitRef(ref, "file")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}
