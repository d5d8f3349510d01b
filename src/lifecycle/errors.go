package lifecycle

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrIncompleteDocuments = errors.New("incomplete documents")
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrDispatch            = errors.New("dispatch failure")
	ErrReferenceExhausted  = errors.New("could not allocate a unique reference")
)

type MissingDocument struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	IsMandatory  bool   `json:"is_mandatory"`
	DocumentType string `json:"document_type"`
}

type IncompleteDocumentsError struct {
	Missing []MissingDocument
}

func (e *IncompleteDocumentsError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		names = append(names, m.Name)
	}
	return fmt.Sprintf("%s: missing %s", ErrIncompleteDocuments, strings.Join(names, ", "))
}

func (e *IncompleteDocumentsError) Unwrap() error {
	return ErrIncompleteDocuments
}

// HTTPStatus maps engine errors to response codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrValidation), errors.Is(err, ErrIncompleteDocuments):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
