package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/strogmv/userstore/internal/pkg/errors"
	"github.com/strogmv/userstore/internal/pkg/logger"
	"github.com/strogmv/userstore/internal/port"
)

const errMsgInvalidBody = "Invalid JSON body"

type UsersHandler struct {
	svc port.Users
}

func NewUsersHandler(svc port.Users) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// List writes the bare array, never an error.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ListUsers(r.Context(), port.ListUsersRequest{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Users)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req port.CreateUserRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		h.fail(w, r, errors.Wrap(http.StatusBadRequest, "Bad Request", errMsgInvalidBody, err))
		return
	}
	resp, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req port.UpdateUserRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		h.fail(w, r, errors.Wrap(http.StatusBadRequest, "Bad Request", errMsgInvalidBody, err))
		return
	}
	req.Number = numberParam(r)
	resp, err := h.svc.UpdateUser(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.DeleteUser(r.Context(), port.DeleteUserRequest{Number: numberParam(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UsersHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusOf(err)
	log := logger.From(r.Context()).With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Info("request rejected")
	}
	errors.WriteError(w, r, err)
}

// numberParam returns the decoded {number} segment. chi routes on RawPath
// when it is set, so only then is the segment still escaped.
func numberParam(r *http.Request) string {
	raw := chi.URLParam(r, "number")
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
