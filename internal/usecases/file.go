package usecases

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
	"homecloud/internal/metrics"
)

// uploadAttempts сколько раз пробуем подобрать имя заново, если кто-то успел создать файл раньше нас.
const uploadAttempts = 16

// FileEngine одиночные файлы и пачечные команды. папки из пачки уходят в DirectoryEngine.
type FileEngine struct {
	paths         *PathResolver
	storage       domain.FileStorage
	trash         domain.Trash
	dirs          *DirectoryEngine
	preservePaths bool
}

func NewFileEngine(paths *PathResolver, storage domain.FileStorage, trash domain.Trash, dirs *DirectoryEngine, preservePaths bool) *FileEngine {
	return &FileEngine{
		paths:         paths,
		storage:       storage,
		trash:         trash,
		dirs:          dirs,
		preservePaths: preservePaths,
	}
}

// Upload сохраняет поток в storagePath. существующий файл не трогаем,
// новый получает суффикс (n).
func (e *FileEngine) Upload(upload domain.UploadStream, storagePath string) domain.Outcome {
	target, err := e.paths.ResolveLeaf(storagePath, upload.OriginalName)
	if err != nil {
		return domain.BadRequest("Error in uploading file: " + err.Error())
	}

	for attempt := 0; attempt < uploadAttempts; attempt++ {
		candidate, nameErr := resolveNamingConflict(e.storage, target)
		if nameErr != nil {
			return domain.BadRequest("Error in uploading file: " + nameErr.Error())
		}
		n, createErr := e.storage.CreateFile(candidate, upload.Body)
		if createErr == nil {
			metrics.RecordUpload(n)
			logrus.WithFields(logrus.Fields{
				"path": candidate,
				"size": n,
			}).Debug("upload stored")
			return domain.OK("Upload Successful")
		}
		if !errors.Is(createErr, fs.ErrExist) {
			return domain.BadRequest("Error in uploading file: " + createErr.Error())
		}
	}
	return domain.BadRequest("Error in uploading file: no free name for " + upload.OriginalName)
}

// View читает файл целиком в память, только для мелочи.
func (e *FileEngine) View(fileName, storagePath string) (*domain.FileContent, domain.Outcome) {
	target, err := e.paths.ResolveLeaf(storagePath, fileName)
	if err != nil {
		return nil, invalidPath(err)
	}

	info, err := e.storage.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return nil, domain.NotFound("File not found: " + fileName)
	}

	data, err := e.storage.ReadFile(target)
	if err != nil {
		return nil, domain.OutcomeFromError(fmt.Errorf("read '%s': %w", fileName, err))
	}
	return &domain.FileContent{Name: fileName, Data: data}, domain.OK(domain.PathEmpty)
}

func (e *FileEngine) Download(filePath string) (*domain.Download, domain.Outcome) {
	target, err := e.paths.ResolveRelative(filePath)
	if err != nil {
		return nil, invalidPath(err)
	}

	f, err := e.storage.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound("File not found: " + filePath)
		}
		return nil, domain.OutcomeFromError(err)
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		closeQuietly(f, target)
		return nil, domain.NotFound("File not found: " + filePath)
	}

	return &domain.Download{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Body:    f,
	}, domain.OK(domain.PathEmpty)
}

// Archive validates every requested path before anything is written, so a bad
// entry fails the whole batch with a single outcome.
func (e *FileEngine) Archive(filePaths []string) (domain.Archive, domain.Outcome) {
	entries := make([]domain.ArchiveEntry, 0, len(filePaths))
	names := newEntryNamer(e.preservePaths)

	for _, p := range filePaths {
		target, err := e.paths.ResolveRelative(p)
		if err != nil {
			return nil, invalidPath(err)
		}
		info, err := e.storage.Stat(target)
		if err != nil || !info.Mode().IsRegular() {
			return nil, domain.NotFound("File not found: " + p)
		}
		entries = append(entries, domain.ArchiveEntry{
			Name: names.name(filepath.Base(target), e.paths.Rel(target)),
			Path: target,
		})
	}

	return newZipArchive(domain.ArchiveName, entries, e.storage), domain.OK(domain.PathEmpty)
}

func (e *FileEngine) Rename(oldFileName, newFileName, storagePath string) domain.Outcome {
	oldPath, err := e.paths.ResolveLeaf(storagePath, oldFileName)
	if err != nil {
		return invalidPath(err)
	}
	newPath, err := e.paths.ResolveLeaf(storagePath, newFileName)
	if err != nil {
		return invalidPath(err)
	}

	if !exists(e.storage, oldPath) {
		return domain.NotFound("Error: Old file not found")
	}
	if exists(e.storage, newPath) {
		return domain.BadRequest("Error: A file with the new name already exists")
	}

	if mvErr := e.storage.Move(oldPath, newPath); mvErr != nil {
		return domain.BadRequest("Error in renaming file: " + mvErr.Error())
	}
	return domain.OK("File renamed successfully")
}

// DeleteFiles все в корзину, по строчке лога на каждое имя.
func (e *FileEngine) DeleteFiles(fileNames []string, storagePath string) domain.Outcome {
	var log domain.BulkLog

	for _, name := range fileNames {
		target, err := e.paths.ResolveLeaf(storagePath, name)
		if err != nil {
			log.Failure(fmt.Sprintf("Error in moving file %s to trash: %v", name, err))
			continue
		}

		if isDir(e.storage, target) {
			out := e.dirs.Delete(path.Join(storagePath, name))
			if out.IsOK() {
				log.Success("Directory " + name + " moved to trash successfully.")
			} else {
				log.Failure(out.Message)
			}
			continue
		}

		if trashErr := e.trash.MoveToTrash(target); trashErr != nil {
			metrics.RecordTrashMove(false)
			logrus.WithField("path", target).Warnf("move to trash failed: %v", trashErr)
			log.Failure("Error in moving file " + name + " to trash.")
			continue
		}
		metrics.RecordTrashMove(true)
		log.Success("File " + name + " moved to trash successfully.")
	}

	return log.Outcome()
}

// CopyFiles copies every name into destinationDirName. Directories are copied
// without overwriting; a single file replaces whatever is at the destination.
func (e *FileEngine) CopyFiles(fileNames []string, destinationDirName, storagePath string) domain.Outcome {
	destDir, err := e.paths.ResolveDir(destinationDirName)
	if err != nil {
		return invalidPath(err)
	}
	var log domain.BulkLog

	for _, name := range fileNames {
		source, err := e.paths.ResolveLeaf(storagePath, name)
		if err != nil {
			log.Failure(fmt.Sprintf("Error in copying %s: %v", name, err))
			continue
		}
		info, err := e.storage.Stat(source)
		if err != nil {
			log.Failure(fmt.Sprintf("Error in copying %s: %v", name, err))
			continue
		}

		if info.IsDir() {
			out := e.dirs.Copy(name, destinationDirName, storagePath)
			if out.IsOK() {
				log.Success("Directory " + name + " copied successfully.")
			} else {
				log.Failure(out.Message)
			}
			continue
		}

		target := filepath.Join(destDir, name)
		if !sameFile(e.storage, info, target) {
			if cpErr := e.storage.CopyFile(source, target, true); cpErr != nil {
				log.Failure(fmt.Sprintf("Error in copying %s: %v", name, cpErr))
				continue
			}
		}
		log.Success("File " + name + " copied successfully.")
	}

	return log.Outcome()
}

func (e *FileEngine) MoveFiles(fileNames []string, destinationDirName, storagePath string) domain.Outcome {
	destDir, err := e.paths.ResolveDir(destinationDirName)
	if err != nil {
		return invalidPath(err)
	}
	var log domain.BulkLog

	for _, name := range fileNames {
		source, err := e.paths.ResolveLeaf(storagePath, name)
		if err != nil {
			log.Failure(fmt.Sprintf("Error in moving %s: %v", name, err))
			continue
		}
		info, err := e.storage.Stat(source)
		if err != nil {
			log.Failure(fmt.Sprintf("Error in moving %s: %v", name, err))
			continue
		}

		if info.IsDir() {
			out := e.dirs.Move(path.Join(storagePath, name), destinationDirName)
			if out.IsOK() {
				log.Success("Directory " + name + " moved successfully.")
			} else {
				log.Failure(out.Message)
			}
			continue
		}

		target := filepath.Join(destDir, name)
		if !sameFile(e.storage, info, target) {
			if mvErr := e.storage.MoveFile(source, target); mvErr != nil {
				log.Failure(fmt.Sprintf("Error in moving %s: %v", name, mvErr))
				continue
			}
		}
		log.Success("File " + name + " moved successfully.")
	}

	return log.Outcome()
}

func isDir(storage domain.FileStorage, path string) bool {
	info, err := storage.Stat(path)
	return err == nil && info.IsDir()
}

func sameFile(storage domain.FileStorage, info os.FileInfo, other string) bool {
	otherInfo, err := storage.Stat(other)
	return err == nil && os.SameFile(info, otherInfo)
}

func closeQuietly(f *os.File, path string) {
	if err := f.Close(); err != nil {
		logrus.Warnf("Failed to close file %s: %v", path, err)
	}
}
