// Package storage persists generated report payloads outside the database
// and hands back opaque references. Two backends: local disk for development
// and S3 for production. The reference encodes its backend, so a deployment
// can migrate without rewriting rows.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is the payload persistence contract the reports service depends on.
type Store interface {
	Put(ctx context.Context, tenantID, reportID string, payload []byte) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// ErrBadRef means a reference does not belong to this store.
var ErrBadRef = errors.New("malformed payload reference")

// splitRef splits "scheme://rest" and checks the scheme.
func splitRef(ref, scheme string) (string, error) {
	prefix := scheme + "://"
	if !strings.HasPrefix(ref, prefix) {
		return "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	rest := strings.TrimPrefix(ref, prefix)
	if rest == "" || strings.Contains(rest, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return rest, nil
}
