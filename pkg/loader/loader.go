// Package loader orchestrates one extraction: open the container, decode
// the document archive, extract the metadata schema, pull the preview and
// hash the source. The pipeline is strictly sequential and each call is
// independent; nothing is cached across invocations.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/AOShei/procreate-meta/pkg/container"
	"github.com/AOShei/procreate-meta/pkg/keyedarchive"
	"github.com/AOShei/procreate-meta/pkg/model"
	"github.com/AOShei/procreate-meta/pkg/silica"
	"github.com/AOShei/procreate-meta/pkg/tempstore"
	"github.com/AOShei/procreate-meta/pkg/thumbnail"
)

// Ext is the required source file extension.
const Ext = ".procreate"

// InputError reports a source file that cannot be accepted: missing,
// wrong extension, or lacking the required archive entry.
type InputError struct {
	Path string
	Msg  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("loader: %s: %s", e.Path, e.Msg)
}

type Config struct {
	Store  *tempstore.Store
	Logger *zap.Logger
	// HashChunkSize bounds memory while hashing; zero selects the
	// default.
	HashChunkSize int
}

type Loader struct {
	store     *tempstore.Store
	log       *zap.Logger
	hashChunk int
}

func New(cfg Config) *Loader {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{store: cfg.Store, log: log, hashChunk: cfg.HashChunkSize}
}

// Inspect extracts the full metadata schema from the .procreate file at
// path. Field-level oddities inside the archive degrade to schema
// defaults; container-level and decode-level problems abort with an
// error and no partial result.
func (l *Loader) Inspect(path string) (*model.Document, error) {
	if err := CheckInput(path); err != nil {
		return nil, err
	}

	c, err := container.Open(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	archiveData, err := c.ReadEntry(container.ArchiveEntry)
	if err != nil {
		var missing *container.ErrEntryMissing
		if errors.As(err, &missing) {
			return nil, &InputError{Path: path, Msg: "container has no " + container.ArchiveEntry}
		}
		return nil, err
	}

	arch, err := keyedarchive.Open(archiveData)
	if err != nil {
		return nil, err
	}
	root, err := arch.Root()
	if err != nil {
		return nil, err
	}
	l.log.Debug("decoded document archive",
		zap.String("path", path),
		zap.Int("objects", len(arch.Objects())),
		zap.Int("root_keys", root.Len()))

	doc := silica.Extract(root, arch, c)

	thumbPath, err := thumbnail.Extract(c, l.store)
	if err != nil {
		return nil, err
	}
	if thumbPath != "" {
		doc.ThumbnailPath = &thumbPath
	}

	hash, err := container.HashFile(path, l.hashChunk)
	if err != nil {
		return nil, err
	}
	doc.SourcePath = path
	doc.FileHash = hash

	l.log.Debug("extraction complete",
		zap.String("path", path),
		zap.Uint("layer_count", doc.LayerCount),
		zap.Bool("has_thumbnail", doc.ThumbnailPath != nil))
	return doc, nil
}

// CheckInput validates that path names an existing .procreate file.
func CheckInput(path string) error {
	if strings.ToLower(filepath.Ext(path)) != Ext {
		return &InputError{Path: path, Msg: "not a " + Ext + " file"}
	}
	if _, err := os.Stat(path); err != nil {
		return &InputError{Path: path, Msg: "file does not exist"}
	}
	return nil
}
