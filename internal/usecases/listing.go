package usecases

import (
	"time"

	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
)

type ListingService struct {
	paths   *PathResolver
	storage domain.FileStorage
}

func NewListingService(paths *PathResolver, storage domain.FileStorage) *ListingService {
	return &ListingService{
		paths:   paths,
		storage: storage,
	}
}

// List returns one entry per child in filesystem order. A missing path or a
// path that is not a directory lists as empty.
func (s *ListingService) List(storagePath string) ([]domain.FileEntry, domain.Outcome) {
	dir, err := s.paths.ResolveDir(storagePath)
	if err != nil {
		return nil, invalidPath(err)
	}

	files := make([]domain.FileEntry, 0)
	info, err := s.storage.Stat(dir)
	if err != nil || !info.IsDir() {
		return files, domain.OK(domain.PathEmpty)
	}

	children, err := s.storage.ReadDirectory(dir)
	if err != nil {
		logrus.WithField("path", dir).Warnf("Failed to list directory: %v", err)
		return files, domain.OK(domain.PathEmpty)
	}

	for _, child := range children {
		kind := domain.KindDirectory
		if child.Mode().IsRegular() {
			kind = domain.KindFile
		}
		files = append(files, domain.FileEntry{
			Name:         child.Name(),
			Kind:         kind,
			Size:         uint64(max(child.Size(), 0)),
			CreationDate: formatInstant(child.ModTime()),
		})
	}
	return files, domain.OK(domain.PathEmpty)
}

// formatInstant ISO-8601 в UTC без хвостовых нулей, типа 2024-03-01T10:20:30.5Z.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
