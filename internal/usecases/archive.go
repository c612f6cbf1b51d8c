package usecases

import (
	"archive/zip"
	"fmt"
	"io"
	"path"

	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
	"homecloud/internal/metrics"
)

// zipArchive streams validated files into a ZIP. Nothing is buffered beyond
// what archive/zip needs for one entry.
type zipArchive struct {
	name    string
	entries []domain.ArchiveEntry
	storage domain.FileStorage
}

func newZipArchive(name string, entries []domain.ArchiveEntry, storage domain.FileStorage) *zipArchive {
	return &zipArchive{
		name:    name,
		entries: entries,
		storage: storage,
	}
}

func (a *zipArchive) Name() string {
	return a.name
}

func (a *zipArchive) Entries() []domain.ArchiveEntry {
	return a.entries
}

func (a *zipArchive) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zipWriter := zip.NewWriter(cw)

	for _, entry := range a.entries {
		if err := a.addFile(zipWriter, entry); err != nil {
			_ = zipWriter.Close()
			return cw.n, err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finish zip: %w", err)
	}
	metrics.RecordDownload(cw.n)
	return cw.n, nil
}

func (a *zipArchive) addFile(zipWriter *zip.Writer, entry domain.ArchiveEntry) error {
	src, err := a.storage.Open(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			logrus.Warnf("Failed to close file %s: %v", entry.Path, closeErr)
		}
	}()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build zip header: %w", err)
	}
	header.Name = entry.Name
	header.Method = zip.Deflate

	dst, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy file to zip: %w", err)
	}
	return nil
}

// entryNamer имя по листу, если занято - путь от корня, если и он занят - суффикс (n).
type entryNamer struct {
	preservePaths bool
	used          map[string]bool
}

func newEntryNamer(preservePaths bool) *entryNamer {
	return &entryNamer{
		preservePaths: preservePaths,
		used:          make(map[string]bool),
	}
}

func (n *entryNamer) name(leaf, rel string) string {
	candidate := leaf
	if n.preservePaths || n.used[candidate] {
		candidate = rel
	}
	if n.used[candidate] {
		dir := path.Dir(candidate)
		base, ext := splitName(path.Base(candidate))
		for i := 1; n.used[candidate]; i++ {
			candidate = path.Join(dir, conflictName(base, ext, i))
		}
	}
	n.used[candidate] = true
	return candidate
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
