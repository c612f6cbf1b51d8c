package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
	"homecloud/internal/metrics"
)

// Handler HTTP -> команды, своего состояния нет.
type Handler struct {
	cmds          domain.Commands
	maxUploadSize int64
}

func NewHandler(cmds domain.Commands, maxUploadSize int64) *Handler {
	return &Handler{
		cmds:          cmds,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) CreateDir(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		return h.cmds.CreateDir(r.FormValue(FormParamDirName), r.FormValue(FormParamStoragePath))
	})
}

func (h *Handler) RenameDir(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		return h.cmds.RenameDir(
			r.FormValue(FormParamOldDirName),
			r.FormValue(FormParamNewDirName),
			r.FormValue(FormParamStoragePath),
		)
	})
}

func (h *Handler) DeleteDir(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		return h.cmds.DeleteDir(r.FormValue(FormParamStoragePath))
	})
}

func (h *Handler) CopyDir(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		return h.cmds.CopyDir(
			r.FormValue(FormParamDirName),
			r.FormValue(FormParamDestinationDirName),
			r.FormValue(FormParamStoragePath),
		)
	})
}

func (h *Handler) MoveDir(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		return h.cmds.MoveDir(r.FormValue(FormParamSourceDirName), r.FormValue(FormParamDestinationDirName))
	})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

		// при chunked ContentLength = -1, поэтому ниже ещё раз смотрим header.Size.
		if r.ContentLength > h.maxUploadSize {
			return h.transportError(fmt.Errorf("file size %d exceeds maximum %d: %w",
				r.ContentLength, h.maxUploadSize, domain.ErrUnsupportedOperation))
		}

		file, header, err := r.FormFile(FormParamFile)
		if err != nil {
			return h.transportError(fmt.Errorf("failed to get form file: %w", err))
		}
		defer file.Close()

		if header.Size > h.maxUploadSize {
			return h.transportError(fmt.Errorf("file size %d exceeds maximum %d: %w",
				header.Size, h.maxUploadSize, domain.ErrUnsupportedOperation))
		}

		return h.cmds.Upload(domain.UploadStream{
			OriginalName: header.Filename,
			Body:         file,
			Size:         header.Size,
		}, r.FormValue(FormParamStoragePath))
	})
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	files, out := h.cmds.List(r.FormValue(FormParamStoragePath))
	if !out.IsOK() {
		h.handleError(w, out)
		return
	}

	w.Header().Set(HeaderContentType, domain.MIMEJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(files); err != nil {
		logrus.Warnf("Failed to encode listing: %v", err)
	}
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	content, out := h.cmds.View(r.FormValue(FormParamFileName), r.FormValue(FormParamStoragePath))
	if !out.IsOK() {
		h.handleError(w, out)
		return
	}

	h.setAttachment(w, content.Name, domain.MIMEOctetStream, int64(len(content.Data)))
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(content.Data)
	if err != nil {
		logrus.Warnf("Failed to send file %s: %v", content.Name, err)
	}
	metrics.RecordDownload(int64(n))
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	download, out := h.cmds.Download(r.FormValue(FormParamFilePath))
	if !out.IsOK() {
		h.handleError(w, out)
		return
	}
	defer func() {
		if err := download.Body.Close(); err != nil {
			logrus.Warnf("Failed to close file %s: %v", download.Name, err)
		}
	}()

	h.setAttachment(w, download.Name, domain.MIMEOctetStream, download.Size)
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, download.Body)
	if err != nil {
		logrus.Warnf("Failed to stream file %s: %v", download.Name, err)
	}
	metrics.RecordDownload(n)
}

func (h *Handler) DownloadFiles(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	filePaths, err := h.formList(r, FormParamFilePaths)
	if err != nil {
		h.handleError(w, h.transportError(err))
		return
	}

	archive, out := h.cmds.Archive(filePaths)
	if !out.IsOK() {
		h.handleError(w, out)
		return
	}

	h.setAttachment(w, archive.Name(), domain.MIMEZip, -1)
	w.WriteHeader(http.StatusOK)
	// заголовки уже ушли, тут ошибку только в лог.
	if _, err := archive.WriteTo(w); err != nil {
		logrus.Errorf("Failed to stream archive: %v", err)
	}
}

func (h *Handler) RenameFile(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		return h.cmds.RenameFile(
			r.FormValue(FormParamOldFileName),
			r.FormValue(FormParamNewFileName),
			r.FormValue(FormParamStoragePath),
		)
	})
}

func (h *Handler) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		fileNames, err := h.formList(r, FormParamFileName)
		if err != nil {
			return h.transportError(err)
		}
		return h.cmds.DeleteFiles(fileNames, r.FormValue(FormParamStoragePath))
	})
}

func (h *Handler) CopyFiles(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		fileNames, err := h.formList(r, FormParamFileNames)
		if err != nil {
			return h.transportError(err)
		}
		return h.cmds.CopyFiles(
			fileNames,
			r.FormValue(FormParamDestinationDirName),
			r.FormValue(FormParamStoragePath),
		)
	})
}

func (h *Handler) MoveFiles(w http.ResponseWriter, r *http.Request) {
	h.handlePost(w, r, func() domain.Outcome {
		fileNames, err := h.formList(r, FormParamSourceFileName)
		if err != nil {
			return h.transportError(err)
		}
		return h.cmds.MoveFiles(
			fileNames,
			r.FormValue(FormParamDestinationDirName),
			r.FormValue(FormParamStoragePath),
		)
	})
}

type healthResponse struct {
	Status string `json:"status"`
	Trash  bool   `json:"trash"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	w.Header().Set(HeaderContentType, domain.MIMEJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok", Trash: h.cmds.TrashAvailable()}); err != nil {
		logrus.Warnf("Failed to encode health: %v", err)
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request, handler func() domain.Outcome) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}

	out := handler()
	if !out.IsOK() {
		h.handleError(w, out)
		return
	}
	h.writeText(w, http.StatusOK, out.Message)
}

func (h *Handler) allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	h.writeText(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	return false
}

// formList returns every value of a repeated form or query parameter.
func (h *Handler) formList(r *http.Request, key string) ([]string, error) {
	// urlencoded и query разбираются ещё до ErrNotMultipart
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return r.Form[key], nil
}

// transportError is a request that never reached a command.
func (h *Handler) transportError(err error) domain.Outcome {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || errors.Is(err, domain.ErrUnsupportedOperation) {
		return domain.Outcome{Status: domain.StatusTooLarge, Message: err.Error()}
	}
	return domain.BadRequest(err.Error())
}

func (h *Handler) setAttachment(w http.ResponseWriter, name, contentType string, size int64) {
	w.Header().Set(HeaderContentDisposition, mime.FormatMediaType(DispositionAttachment, map[string]string{"filename": name}))
	w.Header().Set(HeaderContentType, contentType)
	if size >= 0 {
		w.Header().Set(HeaderContentLength, strconv.FormatInt(size, 10))
	}
}

// getStatusCode статус -> HTTP код.
func getStatusCode(status domain.Status) int {
	switch status {
	case domain.StatusOK:
		return http.StatusOK
	case domain.StatusBadRequest:
		return http.StatusBadRequest
	case domain.StatusNotFound:
		return http.StatusNotFound
	case domain.StatusTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleError(w http.ResponseWriter, out domain.Outcome) {
	httpStatus := getStatusCode(out.Status)
	if httpStatus >= http.StatusInternalServerError {
		logrus.Errorf("HTTP %d Error: %s", httpStatus, out.Message)
	} else {
		logrus.Debugf("HTTP %d: %s", httpStatus, out.Message)
	}
	h.writeText(w, httpStatus, out.Message)
}

func (h *Handler) writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set(HeaderContentType, domain.MIMEText)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, message); err != nil {
		logrus.Debugf("Failed to write response: %v", err)
	}
}
