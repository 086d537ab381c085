// Package sheetstore models capacity-bounded, append-only named tables
// ("sheets") with automatic rotation, over pluggable backends.
package sheetstore

import (
	"context"
	"errors"
)

var ErrSheetNotFound = errors.New("sheet not found")

// Store is the minimal surface the rotation layer and the order matcher
// need from a backend. Row numbering is 1-based and includes the header:
// a sheet holding only its header has LastRow 1, matching how the source
// spreadsheets report it.
type Store interface {
	// Create makes the sheet with the given header row. Creating an
	// existing sheet is a no-op.
	Create(ctx context.Context, name string, header []string) error
	// Append adds one data row and returns its 1-based row number.
	Append(ctx context.Context, name string, row []string) (int, error)
	// Read returns all rows, header first.
	Read(ctx context.Context, name string) ([][]string, error)
	// LastRow returns the highest occupied row number (header included).
	LastRow(ctx context.Context, name string) (int, error)
	// List returns the names of sheets whose name starts with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
