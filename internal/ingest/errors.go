package ingest

import (
	"errors"
	"fmt"
)

// ErrNoScreenshots is returned when neither staged files nor catalog screenshots exist.
var ErrNoScreenshots = errors.New("no screenshots available")

// UsageError reports a missing or invalid ingestion argument.
type UsageError struct {
	Field   string
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid --%s: %s", e.Field, e.Message)
}

// AssetDownloadError reports a failed asset download.
type AssetDownloadError struct {
	URL        string
	StatusCode int // Zero when the request never produced a response
	Err        error
}

func (e *AssetDownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: bad status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *AssetDownloadError) Unwrap() error {
	return e.Err
}
