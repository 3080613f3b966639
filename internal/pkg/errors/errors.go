// Package errors carries HTTP-aware application errors.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is an error with an HTTP status attached.
type AppError struct {
	Code   int
	Title  string
	Detail string
	Err    error
}

func New(code int, title, detail string) *AppError {
	return &AppError{Code: code, Title: title, Detail: detail}
}

// Wrap is New with an underlying cause kept for logging.
func Wrap(code int, title, detail string, err error) *AppError {
	return &AppError{Code: code, Title: title, Detail: detail, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *AppError) Unwrap() error { return e.Err }

// Conflict is reported as 400, the status clients of this API already expect.
func Conflict(detail string) *AppError {
	return New(http.StatusBadRequest, "Conflict", detail)
}

func NotFound(detail string) *AppError {
	return New(http.StatusNotFound, "Not Found", detail)
}

func Internal(detail string, err error) *AppError {
	return Wrap(http.StatusInternalServerError, "Internal Error", detail, err)
}

// StatusOf returns the HTTP status for err, 500 when err is not an AppError.
func StatusOf(err error) int {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}

// WriteError renders err as {"error": detail}.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var ae *AppError
	if stderrors.As(err, &ae) {
		code = ae.Code
		msg = ae.Detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
