package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

const maxUploadBytes = 10 << 20

var (
	errMissingImage  = errors.New("image is required")
	errMissingPrompt = errors.New("prompt is required")
	errImageTooLarge = fmt.Errorf("image is larger than %d MiB", maxUploadBytes>>20)
)

// statusCode maps assistant errors to HTTP statuses.
func statusCode(err error) int {
	var providerErr *domain.ProviderError
	switch {
	case errors.Is(err, errMissingImage),
		errors.Is(err, errMissingPrompt),
		errors.Is(err, domain.ErrEmptyImage),
		errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, errImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// readImage returns the name and content of the multipart "image" field.
func readImage(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		return "", nil, uploadError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, uploadError(fmt.Errorf("reading upload: %w", err))
	}
	return header.Filename, data, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errImageTooLarge
	}
	return fmt.Errorf("%w: %v", errMissingImage, err)
}
