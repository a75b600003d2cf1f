package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/imgbox/internal/server/models"
)

// maxFormBody bounds the registration payload, which is three short fields.
const maxFormBody = 64 << 10

type registrationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readRegistration collects name, email and password from a JSON body, an
// urlencoded or multipart form, or the query string. Body values win over
// query values.
func readRegistration(w http.ResponseWriter, r *http.Request) (registrationRequest, error) {
	var req registrationRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, bodyError(err, "malformed JSON")
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBody); err != nil {
			return req, bodyError(err, "malformed form")
		}
	default:
		if err := r.ParseForm(); err != nil {
			return req, bodyError(err, "malformed form")
		}
	}

	fill(&req.Name, r.FormValue("name"))
	fill(&req.Email, r.FormValue("email"))
	fill(&req.Password, r.FormValue("password"))

	return req, nil
}

// bodyError keeps an oversized body distinguishable from a malformed one.
func bodyError(err error, reason string) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return badRequest("body", reason)
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	req, err := readRegistration(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, r, badRequest("id", "must be an integer"))
		return
	}

	var (
		user  *models.User
		found bool
	)
	err = withReadRetry(r.Context(), func(ctx context.Context) error {
		var err error
		user, found, err = s.users.Get(ctx, id)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	var list []*models.User
	err := withReadRetry(r.Context(), func(ctx context.Context) error {
		var err error
		list, err = s.users.List(ctx)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.User{}
	}

	writeJSON(w, http.StatusOK, list)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
