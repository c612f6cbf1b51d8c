package domain

import "errors"

var (
	ErrPathTraversal        = errors.New("path traversal is not allowed")
	ErrInvalidName          = errors.New("invalid file or folder name")
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrFileNotFound         = errors.New("file or folder not found")
	ErrTrashUnavailable     = errors.New("trash is not available")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)
