package validation

import (
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// FromRules converts ozzo-validation results into an *Error so request validation
// and schema validation report issues in the same shape. Internal rule errors are
// returned untouched.
func FromRules(err error) error {
	if err == nil {
		return nil
	}
	var internal ozzo.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		if len(fieldErrs) == 0 {
			return nil
		}
		return NewError(flattenRuleErrors("", fieldErrs)...)
	}
	return NewError(Issue{Message: err.Error()})
}

func flattenRuleErrors(prefix string, errs ozzo.Errors) []Issue {
	issues := make([]Issue, 0, len(errs))
	for field, err := range errs {
		if err == nil {
			continue
		}
		path := prefix + "/" + field
		var nested ozzo.Errors
		if errors.As(err, &nested) {
			issues = append(issues, flattenRuleErrors(path, nested)...)
			continue
		}
		issues = append(issues, Issue{Path: path, Message: err.Error()})
	}
	return issues
}
