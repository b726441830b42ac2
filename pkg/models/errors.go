package models

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a rejected value: a negative or non-finite amount,
// a negative distance or duration, or a malformed date/time.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e InvalidInputError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "invalid input"
	}
}

// InvalidStateError reports an operation that the record's current status forbids.
type InvalidStateError struct {
	Entity string
	ID     string
	Status string
	Action string
}

func (e InvalidStateError) Error() string {
	entity := e.Entity
	if entity == "" {
		entity = "record"
	}
	if e.ID != "" {
		entity = fmt.Sprintf("%s %s", entity, e.ID)
	}
	if e.Action == "" {
		return fmt.Sprintf("%s is %s", entity, e.Status)
	}
	return fmt.Sprintf("cannot %s %s: status is %s", e.Action, entity, e.Status)
}

func IsInvalidInput(err error) bool {
	var target InvalidInputError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func invalidInput(field, format string, args ...interface{}) error {
	return InvalidInputError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
