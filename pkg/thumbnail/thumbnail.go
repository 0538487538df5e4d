// Package thumbnail extracts the embedded preview image from a document
// container into the managed temp store.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AOShei/procreate-meta/pkg/container"
	"github.com/AOShei/procreate-meta/pkg/tempstore"
)

// ContentError reports an embedded preview whose bytes are not a
// well-formed image.
type ContentError struct {
	Entry string
	Err   error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("thumbnail: corrupt image in %q: %v", e.Entry, e.Err)
}

func (e *ContentError) Unwrap() error { return e.Err }

// Extract reads the preview entry, validates it structurally, and
// publishes it to the store under the source file's base name plus a
// time-based disambiguator. A container without a preview yields an empty
// path and no error; a preview that fails validation yields a
// ContentError and nothing is published.
func Extract(c *container.Container, store *tempstore.Store) (string, error) {
	data, err := c.ReadEntry(container.PreviewEntry)
	if err != nil {
		var missing *container.ErrEntryMissing
		if errors.As(err, &missing) {
			return "", nil
		}
		return "", err
	}

	// Structural check only: the header and dimensions must parse, the
	// pixel data is not decoded.
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", &ContentError{Entry: container.PreviewEntry, Err: err}
	}

	name := previewName(c.Path(), time.Now())
	return store.Publish(name, data)
}

func previewName(sourcePath string, now time.Time) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_" + strconv.FormatInt(now.Unix(), 10) + ".png"
}
