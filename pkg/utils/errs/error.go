package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CustomError is an error with a message, structured arguments and an optional cause.
type CustomError struct {
	message string
	args    map[string]interface{}
	wrapped error
}

// New creates a new CustomError instance.
func New(message string) *CustomError {
	return &CustomError{
		message: message,
		args:    make(map[string]interface{}),
	}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

// Message returns the bare message without args or cause.
func (e *CustomError) Message() string {
	return e.message
}

// Arg adds an argument to the error.
func (e *CustomError) Arg(key string, value interface{}) *CustomError {
	e.args[key] = value
	return e
}

// Wrap sets the cause. A nil err leaves the error unchanged.
func (e *CustomError) Wrap(err error) *CustomError {
	if err != nil {
		e.wrapped = err
	}
	return e
}

// Unwrap returns the wrapped error if any.
func (e *CustomError) Unwrap() error {
	return e.wrapped
}

// write renders "{msg: <message>, args: {k=v ...}, wrappedError: {...}}" with args in key order.
func (e *CustomError) write(b *strings.Builder) {
	b.WriteString("{msg: ")
	b.WriteString(e.message)

	if len(e.args) > 0 {
		keys := make([]string, 0, len(e.args))
		for k := range e.args {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(", args: {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(b, "%s=%v", k, e.args[k])
		}
		b.WriteString("}")
	}

	if e.wrapped != nil {
		b.WriteString(", wrappedError: ")
		var inner *CustomError
		if errors.As(e.wrapped, &inner) && inner == e.wrapped {
			inner.write(b)
		} else {
			fmt.Fprintf(b, "{%v}", e.wrapped.Error())
		}
	}

	b.WriteString("}")
}
