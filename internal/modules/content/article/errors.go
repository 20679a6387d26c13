package article

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound            = errors.New("article not found")
	ErrForbidden           = errors.New("you can only modify your own articles")
	ErrAuthorCannotPublish = errors.New("authors cannot publish directly, please submit for review")
	ErrAuthorCannotArchive = errors.New("only admins can archive or restore articles")
	ErrDuplicateSlug       = errors.New("an article with this slug already exists")
)

// ValidationError is a client input problem. Nothing is persisted when it is returned.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Fields returns per-field messages when the cause is an ozzo error map.
func (e *ValidationError) Fields() map[string]string {
	var errs validation.Errors
	if !errors.As(e.Err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		if err != nil {
			out[field] = err.Error()
		}
	}
	return out
}

func invalid(field, message string) error {
	return &ValidationError{Err: validation.Errors{field: errors.New(message)}}
}
