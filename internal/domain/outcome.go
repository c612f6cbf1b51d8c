package domain

import (
	"errors"
	"strings"
)

// Status is the class of an operation result handed to the transport.
type Status int

const (
	StatusOK Status = iota
	StatusBadRequest
	StatusNotFound
	StatusTooLarge
	StatusInternalError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadRequest:
		return "bad_request"
	case StatusNotFound:
		return "not_found"
	case StatusTooLarge:
		return "too_large"
	default:
		return "internal_error"
	}
}

// Outcome is what every command reports back: a status class plus a human readable message.
type Outcome struct {
	Status  Status
	Message string
}

func OK(message string) Outcome {
	return Outcome{Status: StatusOK, Message: message}
}

func BadRequest(message string) Outcome {
	return Outcome{Status: StatusBadRequest, Message: message}
}

func NotFound(message string) Outcome {
	return Outcome{Status: StatusNotFound, Message: message}
}

func (o Outcome) IsOK() bool {
	return o.Status == StatusOK
}

// OutcomeFromError classifies err. Only ErrFileNotFound maps to not_found; host
// I/O failures surface as bad_request with the host message.
func OutcomeFromError(err error) Outcome {
	if err == nil {
		return OK(PathEmpty)
	}
	switch {
	case errors.Is(err, ErrFileNotFound):
		return NotFound(err.Error())
	default:
		return BadRequest(err.Error())
	}
}

// BulkLog копит вердикты по каждому имени в порядке запроса.
type BulkLog struct {
	lines  []string
	failed bool
}

func (b *BulkLog) Success(line string) {
	b.lines = append(b.lines, line)
}

func (b *BulkLog) Failure(line string) {
	b.lines = append(b.lines, line)
	b.failed = true
}

func (b *BulkLog) Outcome() Outcome {
	msg := strings.Join(b.lines, "\n")
	if b.failed {
		return BadRequest(msg)
	}
	return OK(msg)
}
