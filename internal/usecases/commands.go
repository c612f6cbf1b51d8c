package usecases

import (
	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
	"homecloud/internal/metrics"
)

// имена операций для логов и метрик
const (
	opCreateDir   = "create_dir"
	opRenameDir   = "rename_dir"
	opDeleteDir   = "delete_dir"
	opCopyDir     = "copy_dir"
	opMoveDir     = "move_dir"
	opUpload      = "upload"
	opList        = "list"
	opView        = "view"
	opDownload    = "download"
	opArchive     = "archive"
	opRenameFile  = "rename_file"
	opDeleteFiles = "delete_files"
	opCopyFiles   = "copy_files"
	opMoveFiles   = "move_files"
)

// CommandService единственная точка входа для транспорта.
// раскидывает команды по движкам и пишет результат в логи и метрики.
type CommandService struct {
	trash   domain.Trash
	dirs    *DirectoryEngine
	files   *FileEngine
	listing *ListingService
}

var _ domain.Commands = (*CommandService)(nil)

func NewCommandService(root string, storage domain.FileStorage, trash domain.Trash, preservePaths bool) *CommandService {
	paths := NewPathResolver(root)
	dirs := NewDirectoryEngine(paths, storage, trash)
	return &CommandService{
		trash:   trash,
		dirs:    dirs,
		files:   NewFileEngine(paths, storage, trash, dirs, preservePaths),
		listing: NewListingService(paths, storage),
	}
}

func (s *CommandService) CreateDir(dirName, storagePath string) domain.Outcome {
	return record(opCreateDir, storagePath, s.dirs.Create(dirName, storagePath))
}

func (s *CommandService) RenameDir(oldDirName, newDirName, storagePath string) domain.Outcome {
	return record(opRenameDir, storagePath, s.dirs.Rename(oldDirName, newDirName, storagePath))
}

func (s *CommandService) DeleteDir(storagePath string) domain.Outcome {
	return record(opDeleteDir, storagePath, s.dirs.Delete(storagePath))
}

func (s *CommandService) CopyDir(dirName, destinationDirName, storagePath string) domain.Outcome {
	return record(opCopyDir, storagePath, s.dirs.Copy(dirName, destinationDirName, storagePath))
}

func (s *CommandService) MoveDir(sourceDirName, destinationDirName string) domain.Outcome {
	return record(opMoveDir, sourceDirName, s.dirs.Move(sourceDirName, destinationDirName))
}

func (s *CommandService) Upload(upload domain.UploadStream, storagePath string) domain.Outcome {
	return record(opUpload, storagePath, s.files.Upload(upload, storagePath))
}

func (s *CommandService) List(storagePath string) ([]domain.FileEntry, domain.Outcome) {
	files, out := s.listing.List(storagePath)
	return files, record(opList, storagePath, out)
}

func (s *CommandService) View(fileName, storagePath string) (*domain.FileContent, domain.Outcome) {
	content, out := s.files.View(fileName, storagePath)
	return content, record(opView, storagePath, out)
}

func (s *CommandService) Download(filePath string) (*domain.Download, domain.Outcome) {
	download, out := s.files.Download(filePath)
	return download, record(opDownload, filePath, out)
}

func (s *CommandService) Archive(filePaths []string) (domain.Archive, domain.Outcome) {
	archive, out := s.files.Archive(filePaths)
	return archive, record(opArchive, domain.PathEmpty, out)
}

func (s *CommandService) RenameFile(oldFileName, newFileName, storagePath string) domain.Outcome {
	return record(opRenameFile, storagePath, s.files.Rename(oldFileName, newFileName, storagePath))
}

func (s *CommandService) DeleteFiles(fileNames []string, storagePath string) domain.Outcome {
	return record(opDeleteFiles, storagePath, s.files.DeleteFiles(fileNames, storagePath))
}

func (s *CommandService) CopyFiles(fileNames []string, destinationDirName, storagePath string) domain.Outcome {
	return record(opCopyFiles, storagePath, s.files.CopyFiles(fileNames, destinationDirName, storagePath))
}

func (s *CommandService) MoveFiles(fileNames []string, destinationDirName, storagePath string) domain.Outcome {
	return record(opMoveFiles, storagePath, s.files.MoveFiles(fileNames, destinationDirName, storagePath))
}

func (s *CommandService) TrashAvailable() bool {
	return s.trash.Available()
}

func record(operation, storagePath string, out domain.Outcome) domain.Outcome {
	metrics.RecordOperation(operation, out.Status.String())

	entry := logrus.WithFields(logrus.Fields{
		"operation": operation,
		"path":      storagePath,
		"status":    out.Status.String(),
	})
	if out.IsOK() {
		entry.Debug("command finished")
	} else {
		entry.Info(out.Message)
	}
	return out
}
