// backend-go/internal/domain/errors.go
package domain

import "errors"

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("not found")
