package usecases

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecloud/internal/domain"
)

func readZip(t *testing.T, payload []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	bodies := make(map[string]string, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		bodies[f.Name] = string(data)
	}
	return bodies
}

func TestFileEngine_Archive(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "docs/a.txt", "alpha")
		env.writeFile(t, "pics/b.png", "beta")

		archive, out := env.files.Archive([]string{"docs/a.txt", "pics/b.png"})
		require.True(t, out.IsOK())
		assert.Equal(t, "files.zip", archive.Name())
		assert.Len(t, archive.Entries(), 2)

		var buf bytes.Buffer
		n, err := archive.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, int64(buf.Len()), n)

		assert.Equal(t, map[string]string{"a.txt": "alpha", "b.png": "beta"}, readZip(t, buf.Bytes()))
	})

	t.Run("leaf collision keeps both", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "2023/report.txt", "old")
		env.writeFile(t, "2024/report.txt", "new")

		archive, out := env.files.Archive([]string{"2023/report.txt", "2024/report.txt"})
		require.True(t, out.IsOK())

		var buf bytes.Buffer
		_, err := archive.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"report.txt": "old", "2024/report.txt": "new"}, readZip(t, buf.Bytes()))
	})

	t.Run("same path twice", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "a.txt", "a")

		archive, out := env.files.Archive([]string{"a.txt", "a.txt"})
		require.True(t, out.IsOK())

		var buf bytes.Buffer
		_, err := archive.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a.txt": "a", "a(1).txt": "a"}, readZip(t, buf.Bytes()))
	})

	t.Run("preserve paths", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "docs/a.txt", "alpha")
		env.files.preservePaths = true

		archive, out := env.files.Archive([]string{"docs/a.txt"})
		require.True(t, out.IsOK())
		assert.Equal(t, []domain.ArchiveEntry{{Name: "docs/a.txt", Path: env.path("docs", "a.txt")}}, archive.Entries())
	})

	t.Run("traversal fails the batch", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "a.txt", "a")

		archive, out := env.files.Archive([]string{"a.txt", "../../etc/passwd"})
		assert.Nil(t, archive)
		assert.Equal(t, domain.StatusBadRequest, out.Status)
	})

	t.Run("missing fails the batch", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "a.txt", "a")

		archive, out := env.files.Archive([]string{"a.txt", "b.txt"})
		assert.Nil(t, archive)
		assert.Equal(t, domain.NotFound("File not found: b.txt"), out)
	})
}

func TestEntryNamer(t *testing.T) {
	n := newEntryNamer(false)

	assert.Equal(t, "notes.md", n.name("notes.md", "a/notes.md"))
	assert.Equal(t, "b/notes.md", n.name("notes.md", "b/notes.md"))
	assert.Equal(t, "b/notes(1).md", n.name("notes.md", "b/notes.md"))
	assert.Equal(t, "LICENSE", n.name("LICENSE", "LICENSE"))
	assert.Equal(t, "LICENSE(1)", n.name("LICENSE", "LICENSE"))
}
