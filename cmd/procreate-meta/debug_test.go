package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AOShei/procreate-meta/pkg/container"
	"github.com/AOShei/procreate-meta/pkg/plist/plisttest"
)

func writeDebugFixture(t *testing.T) string {
	t.Helper()

	var b plisttest.Builder
	objects := b.Array(
		b.ASCII("$null"),
		b.Dict(
			"name", b.UID(2),
			"SilicaDocumentArchiveCreationDateKey", b.Date(100),
		),
		b.ASCII("Seascape"),
	)
	outer := b.Dict("$objects", objects, "$top", b.Dict("root", b.UID(1)))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(container.ArchiveEntry)
	require.NoError(t, err)
	_, err = w.Write(b.Bytes(outer))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "dump.procreate")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRunDebug(t *testing.T) {
	path := writeDebugFixture(t)

	var out bytes.Buffer
	require.NoError(t, runDebug(&out, path))
	dump := out.String()

	assert.Contains(t, dump, container.ArchiveEntry)
	assert.Contains(t, dump, "Metadata.plist present: false")
	assert.Contains(t, dump, "$top.root = ref #1")
	assert.Contains(t, dump, "root record: 2 keys")
	// Reference-valued keys show the resolved target on the next line.
	assert.Contains(t, dump, `-> string "Seascape"`)
	// Date-related keys get flagged.
	assert.Contains(t, dump, "* SilicaDocumentArchiveCreationDateKey")
}

func TestRunDebugErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, runDebug(&out, filepath.Join(t.TempDir(), "gone.procreate")))
	})
	t.Run("no archive entry", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		_, err := zw.Create("video/timelapse.mp4")
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		path := filepath.Join(t.TempDir(), "empty.procreate")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		var out bytes.Buffer
		assert.Error(t, runDebug(&out, path))
	})
}
