package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// JSONStore keeps records as a JSON array in a single file.
// It assumes a single writer; concurrent Append calls from separate processes are not safe.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// List returns all records in insertion order. A missing file is an empty store.
func (s *JSONStore) List() ([]AppRecord, error) {
	return s.load()
}

// Get returns the record with the given id.
func (s *JSONStore) Get(id string) (AppRecord, error) {
	records, err := s.List()
	if err != nil {
		return AppRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return AppRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Append validates rec and adds it to the end of the store.
// The whole file is rewritten through a temp file and rename; on any error the
// file on disk is left untouched.
func (s *JSONStore) Append(rec AppRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	records, err := s.load()
	if err != nil {
		return err
	}

	for _, existing := range records {
		if existing.ID == rec.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
	}

	records = append(records, rec)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	return writeFileAtomic(s.path, buf.Bytes(), filePerm(s.path))
}

func (s *JSONStore) load() ([]AppRecord, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []AppRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record store: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[len(trimmed)-1] != ']' {
		return nil, fmt.Errorf("%w: %s", ErrInsertionPointNotFound, s.path)
	}

	var records []AppRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStore, err)
	}
	if records == nil {
		records = []AppRecord{}
	}
	return records, nil
}
