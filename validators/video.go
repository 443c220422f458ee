// Package validators holds request-level validation helpers
package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("invalid file type. Only MP4, MOV, and AVI files are allowed")
	ErrNoFile              = errors.New("no video file provided")
)

var (
	allowedExts  = []string{".mp4", ".mov", ".avi"}
	allowedMimes = []string{"video/mp4", "video/quicktime", "video/x-msvideo", "video/avi"}
)

const maxFileNameSize = 200

// AllowedContainer reports whether the extension or declared mime type is on
// the supported container allow-list. Either matching is enough, mirroring
// how browsers are loose about mime types for local files.
func AllowedContainer(ext, mime string) bool {
	return slices.Contains(allowedExts, strings.ToLower(ext)) ||
		slices.Contains(allowedMimes, strings.ToLower(mime))
}

// VideoValidator checks an uploaded multipart file against the container
// allow-list and the configured size cap. Header checks run first since
// they're cheap, then the actual content is sniffed to catch spoofed types.
// Returns the opened file rewound to the start.
func VideoValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoFile
	}

	ext := filepath.Ext(fh.Filename)
	if !AllowedContainer(ext, fh.Header.Get("Content-Type")) {
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, ErrFileNameTooLong
	}

	if max := viper.GetInt64("upload.max_size"); max > 0 && fh.Size > max {
		return http.StatusRequestEntityTooLarge, nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	sniffed := false
	for _, m := range allowedMimes {
		if mime.Is(m) {
			sniffed = true
			break
		}
	}
	if !sniffed {
		f.Close()
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	return 0, f, nil
}
