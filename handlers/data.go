// ABOUTME: Data proxy handlers forwarding entity CRUD to the upstream backend
// ABOUTME: Injects the bearer token and tenant db, relays JSON and streams exports

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jacksmith315/homealign-dashboard/middleware"
	"github.com/jacksmith315/homealign-dashboard/models"
	"github.com/jacksmith315/homealign-dashboard/services"
)

// EntityCollection handles GET (list) and POST (create) on /api/data/{entity}
func (h *Handler) EntityCollection(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	if !models.IsEntity(entity) {
		writeError(w, http.StatusNotFound, "Not found", "")
		return
	}
	h.forward(w, r, "/"+entity+"/")
}

// EntityItem handles GET, PUT and DELETE on /api/data/{entity}/{id}
func (h *Handler) EntityItem(w http.ResponseWriter, r *http.Request) {
	entity, id := r.PathValue("entity"), r.PathValue("id")
	if !models.IsEntity(entity) || !validItemID(id) {
		writeError(w, http.StatusNotFound, "Not found", "")
		return
	}
	h.forward(w, r, "/"+entity+"/"+url.PathEscape(id)+"/")
}

// validItemID rejects ids that could leave /{entity}/ once joined into the upstream path
func validItemID(id string) bool {
	return id != "" && id != "." && !strings.Contains(id, "/") && !strings.Contains(id, "..")
}

// Lookup serves reference lists such as referral types and tenants
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	path, ok := models.LookupTypes[r.URL.Query().Get("type")]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid lookup type", "")
		return
	}
	h.forward(w, r, path)
}

// GetDatabase reports the selected tenant and the tenants on offer
func (h *Handler) GetDatabase(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DatabaseResponse{
		SelectedDB: h.creds.Read(r).SelectedDB,
		Databases:  models.Tenants,
	})
}

// SetDatabase stores the tenant the data proxy queries
func (h *Handler) SetDatabase(w http.ResponseWriter, r *http.Request) {
	var sel models.DatabaseSelection
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&sel); err != nil {
		slog.Debug("Database selection body not parsable", "error", err)
	}

	if sel.SelectedDB == "" {
		writeError(w, http.StatusBadRequest, "Database selection required", "")
		return
	}

	h.creds.SetTenant(w, sel.SelectedDB)
	slog.Info("Tenant selected", "tenant", sel.SelectedDB)
	writeJSON(w, http.StatusOK, models.DatabaseResponse{
		Success:    true,
		SelectedDB: sel.SelectedDB,
	})
}

// forward relays the request to the backend path. Query parameters pass
// through unchanged except db, which always comes from the tenant cookie.
func (h *Handler) forward(w http.ResponseWriter, r *http.Request, path string) {
	creds := h.creds.Read(r)

	query := r.URL.Query()
	query.Set("db", creds.SelectedDB)

	resp, err := h.backend.Forward(r.Context(), services.BackendRequest{
		Method:      r.Method,
		Path:        path,
		Query:       query,
		Body:        jsonBody(r),
		AccessToken: creds.AccessToken,
	})
	if err != nil {
		writeBackendError(w, r, path, err)
		return
	}
	defer resp.Body.Close()

	for _, key := range []string{"Content-Type", "Content-Disposition"} {
		if v := resp.Header.Get(key); v != "" {
			w.Header().Set(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	if resp.StatusCode == http.StatusNoContent {
		return
	}
	if _, err := io.Copy(flushWriter{w}, resp.Body); err != nil {
		slog.Warn("Relaying backend response failed", "path", path, "error", err)
	}
}

// jsonBody returns the request body for POST and PUT when it is valid JSON.
// Anything else is dropped and the request is forwarded without a body.
func jsonBody(r *http.Request) []byte {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || !json.Valid(data) {
		slog.Debug("Forwarding request without unparsable body", "method", r.Method, "bytes", len(data))
		return nil
	}
	return data
}

// writeBackendError maps upstream failures onto the proxy's error shape
func writeBackendError(w http.ResponseWriter, r *http.Request, path string, err error) {
	requestID := middleware.RequestID(r.Context())

	var be *services.BackendError
	if !errors.As(err, &be) {
		slog.Error("Backend request failed", "request_id", requestID, "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "API request failed", err.Error())
		return
	}

	slog.Warn("Backend returned error", "request_id", requestID, "path", path, "status", be.StatusCode)

	switch be.StatusCode {
	case http.StatusUnauthorized:
		writeError(w, be.StatusCode, "Unauthorized", "")
	case http.StatusForbidden:
		writeError(w, be.StatusCode, "Forbidden", "")
	case http.StatusNotFound:
		writeError(w, be.StatusCode, "Not found", "")
	default:
		detail := be.Detail
		if detail == "" {
			detail = http.StatusText(be.StatusCode)
		}
		writeError(w, be.StatusCode, "API request failed", detail)
	}
}

// flushWriter pushes each chunk to the client so large exports stream
type flushWriter struct {
	w http.ResponseWriter
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if fl, ok := f.w.(http.Flusher); ok {
		fl.Flush()
	}
	return n, err
}
