package usecases

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
	"homecloud/internal/metrics"
)

type DirectoryEngine struct {
	paths   *PathResolver
	storage domain.FileStorage
	trash   domain.Trash
}

func NewDirectoryEngine(paths *PathResolver, storage domain.FileStorage, trash domain.Trash) *DirectoryEngine {
	return &DirectoryEngine{
		paths:   paths,
		storage: storage,
		trash:   trash,
	}
}

// Create не идемпотентный, если папка уже есть - это ошибка.
func (e *DirectoryEngine) Create(dirName, storagePath string) domain.Outcome {
	if dirName == domain.PathEmpty {
		return domain.BadRequest("Folder name cannot be empty.")
	}
	target, err := e.paths.ResolveLeaf(storagePath, dirName)
	if err != nil {
		return invalidPath(err)
	}

	if mkErr := e.storage.CreateDirectory(target); mkErr != nil {
		logrus.WithField("path", target).Debugf("mkdir failed: %v", mkErr)
		location := storagePath
		if location == domain.PathEmpty {
			location = "./"
		}
		return domain.BadRequest("Failed to create directory. Please check the name. It may already exist at: " + location)
	}
	return domain.OK("Directory created successfully")
}

// Rename новое имя проверяю и создаю в родителе исходной папки.
func (e *DirectoryEngine) Rename(oldDirName, newDirName, storagePath string) domain.Outcome {
	source, err := e.paths.ResolveLeaf(storagePath, oldDirName)
	if err != nil {
		return invalidPath(err)
	}
	if validErr := validateLeaf(newDirName); validErr != nil {
		return invalidPath(validErr)
	}
	target := filepath.Join(filepath.Dir(source), newDirName)

	if exists(e.storage, target) {
		return domain.BadRequest("Error: Directory with the name " + newDirName + " already exists.")
	}
	if info, statErr := e.storage.Stat(source); statErr != nil || !info.IsDir() {
		return domain.BadRequest("Error: Not a directory.")
	}

	if mvErr := e.storage.Move(source, target); mvErr != nil {
		logrus.WithFields(logrus.Fields{"old": source, "new": target}).Warnf("rename failed: %v", mvErr)
		return domain.BadRequest("Renaming Failed. Please check the name.")
	}
	return domain.OK("Folder rename successful from " + oldDirName + " to " + newDirName)
}

// Delete обход pre-order. если папка ушла в корзину, то вместе с содержимым,
// поэтому в детей заходим только когда саму папку убрать не вышло.
func (e *DirectoryEngine) Delete(storagePath string) domain.Outcome {
	if storagePath == domain.PathEmpty {
		return domain.BadRequest("Folder name cannot be empty.")
	}
	dir, err := e.paths.ResolveRelative(storagePath)
	if err != nil {
		return invalidPath(err)
	}
	if e.paths.IsRoot(dir) {
		return domain.BadRequest("Cannot delete root folder.")
	}
	if _, statErr := e.storage.Lstat(dir); statErr != nil {
		return domain.BadRequest("Could not delete file: " + filepath.Base(dir) + ": " + statErr.Error())
	}
	if !e.trash.Available() {
		return domain.BadRequest("Could not delete file: " + filepath.Base(dir) + ": " + domain.ErrTrashUnavailable.Error())
	}

	var failures walkFailures
	walkErr := e.storage.Walk(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				failures.add("Could not delete file: "+filepath.Base(path), err)
			}
			return nil
		}

		if trashErr := e.trash.MoveToTrash(path); trashErr != nil {
			metrics.RecordTrashMove(false)
			failures.add("Could not delete file: "+filepath.Base(path), trashErr)
			return nil
		}
		metrics.RecordTrashMove(true)
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return domain.BadRequest(walkErr.Error())
	}

	if !failures.empty() {
		return domain.BadRequest(failures.message())
	}
	return domain.OK("All Files in the folder moved to trash successfully.")
}

// Copy copies storagePath/dirName into destinationDirName, keeping its name.
// Nothing at the destination is overwritten.
func (e *DirectoryEngine) Copy(dirName, destinationDirName, storagePath string) domain.Outcome {
	if dirName == domain.PathEmpty {
		return domain.BadRequest("Cannot copy root folder.")
	}
	source, err := e.paths.ResolveLeaf(storagePath, dirName)
	if err != nil {
		return invalidPath(err)
	}
	destParent, err := e.paths.ResolveDir(destinationDirName)
	if err != nil {
		return invalidPath(err)
	}
	destination := filepath.Join(destParent, dirName)

	if domain.Contains(source, destination) {
		return domain.BadRequest("Cannot copy a folder into itself.")
	}
	if _, statErr := e.storage.Lstat(source); statErr != nil {
		return domain.BadRequest("Could not copy file: " + dirName + ": " + statErr.Error())
	}
	if mkErr := e.storage.CreateDirectories(destParent); mkErr != nil {
		return domain.BadRequest("Internal server error copying: " + mkErr.Error())
	}

	sourceParent := filepath.Dir(source)
	var failures walkFailures
	walkErr := e.storage.Walk(source, func(path string, d fs.DirEntry, err error) error {
		name := relName(sourceParent, path)
		if err != nil {
			failures.add("Could not copy file: "+name, err)
			return nil
		}

		rel, relErr := filepath.Rel(source, path)
		if relErr != nil {
			failures.add("Could not copy file: "+name, relErr)
			return nil
		}
		target := filepath.Join(destination, rel)

		if d.IsDir() {
			if mkErr := e.storage.CreateDirectory(target); mkErr != nil {
				failures.add("Could not copy file: "+name, mkErr)
			}
			return nil
		}
		if cpErr := e.storage.CopyFile(path, target, false); cpErr != nil {
			failures.add("Could not copy file: "+name, cpErr)
		}
		return nil
	})
	if walkErr != nil {
		return domain.BadRequest("Internal server error copying: " + walkErr.Error())
	}

	if !failures.empty() {
		return domain.BadRequest(failures.message())
	}
	return domain.OK("Folder copied successfully.")
}

// Move один атомарный rename, без запасного копирования.
func (e *DirectoryEngine) Move(sourceDirName, destinationDirName string) domain.Outcome {
	if sourceDirName == domain.PathEmpty {
		return domain.BadRequest("Cannot move root folder.")
	}
	source, err := e.paths.ResolveRelative(sourceDirName)
	if err != nil {
		return invalidPath(err)
	}
	if e.paths.IsRoot(source) {
		return domain.BadRequest("Cannot move root folder.")
	}
	destParent, err := e.paths.ResolveDir(destinationDirName)
	if err != nil {
		return invalidPath(err)
	}
	destination := filepath.Join(destParent, filepath.Base(source))

	if domain.Contains(source, destination) {
		return domain.BadRequest("Cannot move a folder into itself.")
	}

	if mvErr := e.storage.Move(source, destination); mvErr != nil {
		if errors.Is(mvErr, fs.ErrExist) {
			return domain.BadRequest("File/Folder with same name already exists at destination: " + destinationDirName)
		}
		return domain.BadRequest("Error in moving folder " + sourceDirName + ": " + mvErr.Error())
	}
	return domain.OK("Folder moved successfully.")
}

// walkFailures все упавшие пути обхода, по порядку.
type walkFailures struct {
	lines []string
}

func (f *walkFailures) add(line string, cause error) {
	logrus.WithError(cause).Warn(line)
	f.lines = append(f.lines, line)
}

func (f *walkFailures) empty() bool {
	return len(f.lines) == 0
}

func (f *walkFailures) message() string {
	return strings.Join(f.lines, "\n")
}

func relName(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func invalidPath(err error) domain.Outcome {
	return domain.BadRequest(fmt.Sprintf("Invalid path: %v", err))
}
