// Package container reads .procreate document containers: zip archives
// bundling the keyed document archive, an optional preview image, and the
// document's drawing assets.
package container

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// Fixed entry names inside the container.
const (
	// ArchiveEntry holds the binary property list describing the document.
	ArchiveEntry = "Document.archive"
	// PreviewEntry holds the embedded preview image, written on each save.
	PreviewEntry = "QuickLook/Thumbnail.png"
)

// ErrEntryMissing reports a container entry that does not exist.
type ErrEntryMissing struct {
	Name string
}

func (e *ErrEntryMissing) Error() string {
	return fmt.Sprintf("container: no entry %q", e.Name)
}

// Container is an opened .procreate file.
type Container struct {
	path    string
	zr      *zip.ReadCloser
	entries map[string]*zip.File
}

// Open opens the container at path. The caller must Close it.
func Open(path string) (*Container, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("container: open %s: %w", path, err)
	}
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	return &Container{path: path, zr: zr, entries: entries}, nil
}

func (c *Container) Close() error { return c.zr.Close() }

// Path returns the source file path the container was opened from.
func (c *Container) Path() string { return c.path }

// Has reports whether the named entry exists.
func (c *Container) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// ReadEntry returns the full contents of the named entry.
func (c *Container) ReadEntry(name string) ([]byte, error) {
	f, ok := c.entries[name]
	if !ok {
		return nil, &ErrEntryMissing{Name: name}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("container: open entry %q: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("container: read entry %q: %w", name, err)
	}
	return data, nil
}

// ModTime returns the stored modification time of the named entry.
func (c *Container) ModTime(name string) (time.Time, bool) {
	f, ok := c.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return f.Modified, true
}

// PreviewModTime returns the stored modification time of the embedded
// preview entry as unix seconds.
func (c *Container) PreviewModTime() (int64, bool) {
	return c.unixModTime(PreviewEntry)
}

// ArchiveModTime returns the stored modification time of the document
// archive entry as unix seconds.
func (c *Container) ArchiveModTime() (int64, bool) {
	return c.unixModTime(ArchiveEntry)
}

func (c *Container) unixModTime(name string) (int64, bool) {
	t, ok := c.ModTime(name)
	if !ok || t.IsZero() {
		return 0, false
	}
	return t.Unix(), true
}

// EntryInfo describes one container entry, for diagnostic listings.
type EntryInfo struct {
	Name     string
	Size     uint64
	Modified time.Time
}

// Entries lists the container contents in archive order.
func (c *Container) Entries() []EntryInfo {
	out := make([]EntryInfo, 0, len(c.zr.File))
	for _, f := range c.zr.File {
		out = append(out, EntryInfo{Name: f.Name, Size: f.UncompressedSize64, Modified: f.Modified})
	}
	return out
}
