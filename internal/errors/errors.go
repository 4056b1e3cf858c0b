// Package errors — коды ошибок gcmgen и их отображение в код выхода.
package errors

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
)

// Code — стабильный строковый код ошибки.
type Code string

const (
	EUsage Code = "E_USAGE"
	// EPermission — ОС запретила создание или запись.
	EPermission Code = "E_PERMISSION"
	// EIO — любая другая ошибка ФС: конфликт типов, нет места, неверный путь.
	EIO     Code = "E_IO"
	ESpec   Code = "E_SPEC"
	EConfig Code = "E_CONFIG"
)

// GenError — ошибка с кодом, путём и исходной причиной.
type GenError struct {
	Code  Code
	Msg   string
	Path  string // может быть пустым
	Cause error
}

// Error возвращает "CODE: сообщение: причина".
func (e *GenError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *GenError) Unwrap() error { return e.Cause }

// New создаёт ошибку без причины.
func New(code Code, msg string) error {
	return &GenError{Code: code, Msg: msg}
}

// Wrap оборачивает err кодом и сообщением.
func Wrap(code Code, msg string, err error) error {
	return &GenError{Code: code, Msg: msg, Cause: err}
}

// FS классифицирует ошибку файловой системы: EPermission или EIO.
func FS(op, path string, err error) error {
	code := EIO
	if errors.Is(err, iofs.ErrPermission) {
		code = EPermission
	}
	return &GenError{Code: code, Msg: op + " " + path, Path: path, Cause: err}
}

// GetCode извлекает код или "" если это не GenError.
func GetCode(err error) Code {
	var ge *GenError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// PathOf возвращает путь, на котором произошла ошибка, если он известен.
func PathOf(err error) string {
	var ge *GenError
	if errors.As(err, &ge) {
		return ge.Path
	}
	return ""
}

// ExitCode: 0 без ошибки, 2 для E_USAGE, 1 для остальных.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print пишет ошибку в стабильном формате:
//
//	error_code: <CODE>
//	<сообщение>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ge *GenError
	if !errors.As(err, &ge) {
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintf(w, "error_code: %s\n", ge.Code)
	if ge.Cause != nil {
		fmt.Fprintf(w, "%s: %v\n", ge.Msg, ge.Cause)
		return
	}
	fmt.Fprintln(w, ge.Msg)
}
