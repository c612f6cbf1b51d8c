package domain

import (
	"io"
	"io/fs"
	"os"
	"time"
)

type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// FileEntry один ребенок директории.
// в CreationDate на самом деле время изменения, имя поля оставил ради старых клиентов.
type FileEntry struct {
	Name         string    `json:"name"`
	Kind         EntryKind `json:"type"`
	Size         uint64    `json:"size"`
	CreationDate string    `json:"creationDate"`
}

// UploadStream is a single uploaded file. Body is consumed exactly once.
type UploadStream struct {
	OriginalName string
	Body         io.Reader
	Size         int64
}

type FileContent struct {
	Name string
	Data []byte
}

// Download is an opened regular file ready to be streamed. The receiver closes Body.
type Download struct {
	Name    string
	Size    int64
	ModTime time.Time
	Body    io.ReadCloser
}

type ArchiveEntry struct {
	Name string
	Path string
}

// Archive is a validated batch of files that streams as a ZIP.
type Archive interface {
	Name() string
	Entries() []ArchiveEntry
	WriteTo(w io.Writer) (int64, error)
}

// FileStorage is the host filesystem as the engines see it. All paths are absolute.
type FileStorage interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadDirectory(path string) ([]os.FileInfo, error)
	CreateDirectory(path string) error
	CreateDirectories(path string) error
	CreateFile(path string, body io.Reader) (int64, error)
	ReadFile(path string) ([]byte, error)
	Open(path string) (*os.File, error)
	CopyFile(src, dst string, overwrite bool) error
	Move(src, dst string) error
	MoveFile(src, dst string) error
	Walk(root string, fn fs.WalkDirFunc) error
}

// Trash для корзины хоста.
type Trash interface {
	Available() bool
	MoveToTrash(path string) error
}

// Commands то, что дергает транспорт.
type Commands interface {
	CreateDir(dirName, storagePath string) Outcome
	RenameDir(oldDirName, newDirName, storagePath string) Outcome
	DeleteDir(storagePath string) Outcome
	CopyDir(dirName, destinationDirName, storagePath string) Outcome
	MoveDir(sourceDirName, destinationDirName string) Outcome

	Upload(upload UploadStream, storagePath string) Outcome
	List(storagePath string) ([]FileEntry, Outcome)
	View(fileName, storagePath string) (*FileContent, Outcome)
	Download(filePath string) (*Download, Outcome)
	Archive(filePaths []string) (Archive, Outcome)
	RenameFile(oldFileName, newFileName, storagePath string) Outcome
	DeleteFiles(fileNames []string, storagePath string) Outcome
	CopyFiles(fileNames []string, destinationDirName, storagePath string) Outcome
	MoveFiles(fileNames []string, destinationDirName, storagePath string) Outcome

	TrashAvailable() bool
}
