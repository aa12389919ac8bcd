package core

import (
	"errors"
	"fmt"
)

// Path construction errors
var (
	ErrInvalidName    = errors.New("invalid path element name")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidPath    = errors.New("invalid actor path")
	ErrNilParent      = errors.New("parent path is nil")
)

// Registry errors
var (
	ErrPathExists      = errors.New("path already registered")
	ErrPathNotFound    = errors.New("path not registered")
	ErrPathHasChildren = errors.New("path has registered children")
	ErrForeignPath     = errors.New("path belongs to another root")
)

// InvalidNameError reports a path element name rejected at construction.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid path element name %q: %s", e.Name, e.Reason)
}

func (e *InvalidNameError) Unwrap() error {
	return ErrInvalidName
}
