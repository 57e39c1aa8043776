package commands

import (
	"context"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/permissions"
)

const (
	codeMessageInvalid   = "COMMAND_MESSAGE_INVALID"
	codeCanceled         = "COMMAND_CANCELED"
	codeTimeout          = "COMMAND_TIMEOUT"
	codeFailed           = "COMMAND_FAILED"
	codePermissionDenied = "PERMISSION_DENIED"
)

// Classify maps err onto a go-errors category and a text code. Domain errors
// carrying a resource produce codes such as PAGE_NOT_FOUND or SECTION_CONFLICT.
func Classify(err error) (goerrors.Category, string) {
	var (
		notFound *domain.NotFoundError
		conflict *domain.ConflictError
		invalid  *domain.InvalidStateError
	)
	switch {
	case errors.Is(err, permissions.ErrPermissionDenied):
		return goerrors.CategoryAuthz, codePermissionDenied
	case errors.As(err, &notFound):
		return goerrors.CategoryNotFound, resourceCode(notFound.Resource, "NOT_FOUND")
	case errors.Is(err, domain.ErrNotFound):
		return goerrors.CategoryNotFound, "NOT_FOUND"
	case errors.As(err, &conflict):
		return goerrors.CategoryConflict, resourceCode(conflict.Resource, "CONFLICT")
	case errors.Is(err, domain.ErrConflict):
		return goerrors.CategoryConflict, "CONFLICT"
	case errors.As(err, &invalid):
		return goerrors.CategoryConflict, resourceCode(invalid.Resource, "INVALID_STATE")
	case errors.Is(err, domain.ErrInvalidState):
		return goerrors.CategoryConflict, "INVALID_STATE"
	case errors.Is(err, domain.ErrValidation):
		return goerrors.CategoryValidation, "VALIDATION_FAILED"
	case errors.Is(err, context.Canceled):
		return goerrors.CategoryCommand, codeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.CategoryCommand, codeTimeout
	default:
		return goerrors.CategoryCommand, codeFailed
	}
}

func resourceCode(resource, suffix string) string {
	words := strings.Fields(strings.ToUpper(resource))
	if len(words) == 0 {
		return suffix
	}
	return strings.Join(append(words, suffix), "_")
}

// wrapValidationError tags a rejected message. Structured validation issues
// survive the wrap and still unwrap to domain.ErrValidation.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	code := codeMessageInvalid
	if errors.Is(err, domain.ErrValidation) {
		code = "VALIDATION_FAILED"
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message rejected").
		WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	category, code := Classify(err)
	return goerrors.Wrap(err, category, describe(category)).WithTextCode(code)
}

func describe(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryAuthz:
		return "command not permitted"
	case goerrors.CategoryNotFound:
		return "command target not found"
	case goerrors.CategoryConflict:
		return "command conflicts with current state"
	case goerrors.CategoryValidation:
		return "command input invalid"
	default:
		return "command execution failed"
	}
}
