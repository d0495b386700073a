package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("file not found")
	ErrNotInitialized = errors.New("storage is not initialized")
	ErrNotDirectory   = errors.New("root location is not a directory")
)

// ErrorKind классифицирует ошибки записи и чтения стораджа.
type ErrorKind int

const (
	KindIOFailure ErrorKind = iota
	KindEmptyFile
	KindInvalidFilename
	KindTooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyFile:
		return "empty file"
	case KindInvalidFilename:
		return "invalid filename"
	case KindTooLarge:
		return "file too large"
	default:
		return "io failure"
	}
}

// Сентинелы для errors.Is: совпадение идёт только по Kind.
var (
	ErrIOFailure       = &StorageError{Kind: KindIOFailure}
	ErrEmptyFile       = &StorageError{Kind: KindEmptyFile}
	ErrInvalidFilename = &StorageError{Kind: KindInvalidFilename}
	ErrTooLarge        = &StorageError{Kind: KindTooLarge}
)

// StorageError: ошибка операции над стораджем, не фатальная для сервиса.
type StorageError struct {
	Kind ErrorKind
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is сравнивает с сентинелом того же вида (без Op/Name/Err).
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return t.Op == "" && t.Name == "" && t.Err == nil && t.Kind == e.Kind
}

// InitError означает, что корневой каталог не удалось подготовить. Сервис без него непригоден.
type InitError struct {
	Root string
	Err  error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not initialize storage at %q", e.Root)
	}
	return fmt.Sprintf("could not initialize storage at %q: %v", e.Root, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
