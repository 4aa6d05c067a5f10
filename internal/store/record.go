package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInsertionPointNotFound is returned when the store file lacks its closing array marker.
	ErrInsertionPointNotFound = errors.New("insertion point not found in record store")
	// ErrMalformedStore is returned when the store file cannot be parsed.
	ErrMalformedStore = errors.New("record store is malformed")
	// ErrDuplicateID is returned when appending a record whose id already exists.
	ErrDuplicateID = errors.New("record id already exists")
	// ErrNotFound is returned when a record id is not in the store.
	ErrNotFound = errors.New("record not found")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// AppRecord is one app in the directory.
type AppRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	AppStoreID  int64    `json:"appStoreId"`
	AccentColor string   `json:"accentColor"`
	Screenshots []string `json:"screenshots"`
}

// Validate checks the invariants a record must satisfy before it is appended.
func (r AppRecord) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("invalid record: id is required")
	case r.ID != strings.ToLower(r.ID):
		return fmt.Errorf("invalid record: id %q must be lowercase", r.ID)
	case strings.ContainsAny(r.ID, `/\`):
		return fmt.Errorf("invalid record: id %q must be a single folder name", r.ID)
	case len(r.Screenshots) == 0:
		return fmt.Errorf("invalid record %q: screenshots must not be empty", r.ID)
	case !IsHexColor(r.AccentColor):
		return fmt.Errorf("invalid record %q: accent color %q is not a 6-digit hex color", r.ID, r.AccentColor)
	}
	return nil
}

// IsHexColor reports whether s is a #rrggbb color.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Appender adds a record to an append-only store.
type Appender interface {
	Append(rec AppRecord) error
}
