package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lumenworks/sectioncms/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaInvalid indicates a schema document could not be compiled.
var ErrSchemaInvalid = errors.New("schema invalid")

// Issue captures a single validation failure located by JSON pointer.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error surfaces every validation issue found in a payload. It unwraps to
// domain.ErrValidation.
type Error struct {
	Issues []Issue
	Cause  error
}

// NewError builds a validation error from the supplied issues.
func NewError(issues ...Issue) *Error {
	return &Error{Issues: sortIssues(issues)}
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return domain.ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Path)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return domain.ErrValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var payloadErr *Error
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return collectValidationIssues(schemaErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Prefix rewrites issue paths of a validation error so they are rooted at prefix.
// Errors that are not validation errors are returned unchanged.
func Prefix(prefix string, err error) error {
	var payloadErr *Error
	if err == nil || !errors.As(err, &payloadErr) {
		return err
	}
	prefix = "/" + strings.Trim(prefix, "/")
	issues := make([]Issue, 0, len(payloadErr.Issues))
	for _, issue := range payloadErr.Issues {
		path := strings.TrimPrefix(strings.TrimSpace(issue.Path), "#")
		issues = append(issues, Issue{Path: prefix + path, Message: issue.Message})
	}
	return &Error{Issues: issues, Cause: payloadErr.Cause}
}

// Merge combines the issues of several validation errors into one. Nil entries are
// skipped; the first non-validation error is returned as is.
func Merge(errs ...error) error {
	issues := []Issue{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var payloadErr *Error
		if !errors.As(err, &payloadErr) {
			return err
		}
		issues = append(issues, payloadErr.Issues...)
	}
	if len(issues) == 0 {
		return nil
	}
	return NewError(issues...)
}

// Schema is a compiled JSON schema document.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile compiles a JSON schema expressed as a map using draft 2020-12.
func Compile(name string, schema map[string]any) (*Schema, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: %s: empty schema", ErrSchemaInvalid, name)
	}
	compiled, err := compileSchema(name, schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks payload against the schema, reporting every failing location.
func (s *Schema) Validate(payload any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	normalized, err := normalizePayload(payload)
	if err != nil {
		return NewError(Issue{Message: fmt.Sprintf("payload is not valid JSON: %v", err)})
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &Error{
			Issues: sortIssues(Issues(err)),
			Cause:  err,
		}
	}
	return nil
}

// normalizePayload round-trips the payload through encoding/json so typed Go values
// reach the validator in their decoded JSON form.
func normalizePayload(payload any) (any, error) {
	if payload == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	resource := strings.TrimSpace(name)
	if resource == "" {
		resource = "schema"
	}
	resource += ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

func collectValidationIssues(err *jsonschema.ValidationError) []Issue {
	if err == nil {
		return nil
	}
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Path:    strings.TrimSpace(node.InstanceLocation),
				Message: strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

func sortIssues(issues []Issue) []Issue {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path == issues[j].Path {
			return issues[i].Message < issues[j].Message
		}
		return issues[i].Path < issues[j].Path
	})
	return issues
}
