package task

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDuration = errors.New("duration must be greater than 0")
	ErrMissingSpec     = errors.New("task type is required")
	ErrUnknownType     = errors.New("unknown task type")
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError 汇总一次任务提交中的全部字段错误
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap 支持 errors.Is 匹配任一字段错误
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

func (e *ValidationError) add(field string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Err: err})
}

func (e *ValidationError) checkDuration(durationSeconds int) {
	if durationSeconds <= 0 {
		e.add("time_seconds", ErrInvalidDuration)
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
