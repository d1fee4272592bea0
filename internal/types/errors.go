package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrNoForm          = errors.New("element is not inside a form")
	ErrDriverClosed    = errors.New("browser driver has been closed")
	ErrRunPanicked     = errors.New("run panicked")
	ErrEmptySelector   = errors.New("empty selector")
)

// ElementError wraps failures to locate or interact with a page element.
type ElementError struct {
	Step     string
	Selector string
	Err      error
}

func (e *ElementError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: element %q: %v", e.Step, e.Selector, e.Err)
	}
	return fmt.Sprintf("element %q: %v", e.Selector, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// DownloadError wraps errors that occur while downloading an image.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("download error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("download error for %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means an element was absent within its wait.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}
