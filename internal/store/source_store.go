package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// closingMarker terminates the exported records array in the generated source file.
const closingMarker = "];"

// SourceStore appends records to a generated TypeScript data module
// (`export const apps: App[] = [ ... ];`) that the presentation layer imports directly.
// It is kept for sites that still consume apps.ts; JSONStore is the primary store.
type SourceStore struct {
	path string
}

// NewSourceStore returns a store backed by the generated source file at path.
func NewSourceStore(path string) *SourceStore {
	return &SourceStore{path: path}
}

// Append splices the rendered record immediately before the last closing marker.
// The file must already exist; the splice happens in memory and is written back atomically.
func (s *SourceStore) Append(rec AppRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read record store: %w", err)
	}
	content := string(raw)

	insertAt := strings.LastIndex(content, closingMarker)
	if insertAt == -1 {
		return fmt.Errorf("%w: %s", ErrInsertionPointNotFound, s.path)
	}

	if strings.Contains(content, fmt.Sprintf("id: %s,", quote(rec.ID))) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}

	updated := content[:insertAt] + RenderSource(rec) + "\n" + content[insertAt:]
	return writeFileAtomic(s.path, []byte(updated), filePerm(s.path))
}

// RenderSource formats rec as an object literal entry of the generated source array.
func RenderSource(rec AppRecord) string {
	var b strings.Builder
	b.WriteString("  {\n")
	fmt.Fprintf(&b, "    id: %s,\n", quote(rec.ID))
	fmt.Fprintf(&b, "    name: %s,\n", quote(rec.Name))
	fmt.Fprintf(&b, "    icon: %s,\n", quote(rec.Icon))
	fmt.Fprintf(&b, "    category: %s,\n", quote(rec.Category))
	fmt.Fprintf(&b, "    description:\n      %s,\n", quote(rec.Description))
	fmt.Fprintf(&b, "    appStoreId: %d,\n", rec.AppStoreID)
	fmt.Fprintf(&b, "    accentColor: %s,\n", quote(rec.AccentColor))
	b.WriteString("    screenshots: [\n")
	for _, p := range rec.Screenshots {
		fmt.Fprintf(&b, "      %s,\n", quote(p))
	}
	b.WriteString("    ],\n")
	b.WriteString("  },")
	return b.String()
}

// quote returns s as a double-quoted string literal valid in both JSON and TypeScript.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
