package inspect

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/merge"
	"github.com/0xalexb/hjarta-layers/value"
)

// TypeLister lists the known type names. *registry.Registry implements it.
type TypeLister interface {
	Types() []string
}

// ValueResponse is the body of a successful value lookup.
type ValueResponse struct {
	Type    string      `json:"type"`
	Name    string      `json:"name"`
	Mode    string      `json:"mode"`
	Present bool        `json:"present"`
	Value   value.Value `json:"value"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler answers inspection requests against the engine held by a Holder.
type Handler struct {
	holder *engine.Holder
	types  TypeLister
	logger *slog.Logger
	mux    *http.ServeMux
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTypes enables GET /types.
func WithTypes(types TypeLister) HandlerOption {
	return func(h *Handler) {
		h.types = types
	}
}

// WithLogger sets the logger for request and failure logs.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler returns a Handler reading from holder on every request, so a
// swapped engine is picked up immediately.
func NewHandler(holder *engine.Holder, opts ...HandlerOption) *Handler {
	h := &Handler{
		holder: holder,
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}

	for _, apply := range opts {
		apply(h)
	}

	h.mux.HandleFunc("GET /values/{type}/{name}", h.getValue)
	h.mux.HandleFunc("GET /types", h.listTypes)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) getValue(w http.ResponseWriter, r *http.Request) {
	typ, name := r.PathValue("type"), r.PathValue("name")

	mode, err := engine.ParseResolution(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	v, err := h.holder.Load().Get(typ, name, mode)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, merge.ErrTypeMismatch) {
			status = http.StatusConflict
		}

		h.logger.Warn("lookup failed",
			slog.String("type", typ),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		writeError(w, status, err)

		return
	}

	writeJSON(w, http.StatusOK, ValueResponse{
		Type:    typ,
		Name:    name,
		Mode:    mode.String(),
		Present: !v.IsAbsent(),
		Value:   v,
	})
}

func (h *Handler) listTypes(w http.ResponseWriter, _ *http.Request) {
	if h.types == nil {
		writeError(w, http.StatusNotFound, errNoTypes)

		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"types": h.types.Types()})
}

var errNoTypes = errors.New("type listing is not available")

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("writing response", slog.String("error", err.Error()))
	}
}
