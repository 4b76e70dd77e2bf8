package documents

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrDocumentRequired = errors.New("documents: document is required")
	ErrSectionNotFound  = errors.New("documents: section not found")
)

const (
	viewConfigInvalidCode = "VIEW_CONFIG_INVALID"
	documentRequiredCode  = "DOCUMENT_REQUIRED"
	sectionNotFoundCode   = "SECTION_NOT_FOUND"
)

func invalidConfigError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "documents: "+message).
		WithTextCode(viewConfigInvalidCode)
}

func documentRequiredError() error {
	return goerrors.Wrap(ErrDocumentRequired, goerrors.CategoryValidation, ErrDocumentRequired.Error()).
		WithTextCode(documentRequiredCode)
}

func sectionNotFoundError(id uuid.UUID) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s", ErrSectionNotFound, id), goerrors.CategoryNotFound, ErrSectionNotFound.Error()).
		WithTextCode(sectionNotFoundCode)
}
