package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wavesync/internal/resolver"
	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/desertthunder/wavesync/internal/tasks"
)

// Engine holds the engine state the control handlers operate on. The
// scheduler is ticked elsewhere (the serve loop); handlers only start tasks
// and read snapshots.
type Engine struct {
	Session   *tasks.Session
	Scheduler *tasks.Scheduler
	Resolver  *resolver.Resolver
	Logger    *log.Logger
}

// statusPayload is the wire format of GET /status.
type statusPayload struct {
	State            string  `json:"state"`
	Kind             string  `json:"kind"`
	ProgressFraction float64 `json:"progress_fraction"`
	StatusText       string  `json:"status_text"`
	RegistryCount    int     `json:"registry_count"`
	LastError        string  `json:"last_error,omitempty"`
}

// recordPayload is one registry row in GET /registry.
type recordPayload struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MiddlewarePath   string `json:"middleware_path"`
	OriginalFilePath string `json:"original_file_path"`
	LocalFilePath    string `json:"local_file_path"`
	ItemRef          string `json:"item_ref"`
	Stale            bool   `json:"stale"`
}

// Routes registers the control surface on router.
func (e *Engine) Routes(router *BasicRouter) {
	router.Handle(http.MethodGet, "/status", http.HandlerFunc(e.Status))
	router.Handle(http.MethodGet, "/registry", http.HandlerFunc(e.Registry))
	router.Handle(http.MethodPost, "/import", http.HandlerFunc(e.Import))
	router.Handle(http.MethodPost, "/render", http.HandlerFunc(e.Render))
}

// Status reports the scheduler's state for polling clients.
func (e *Engine) Status(w http.ResponseWriter, r *http.Request) {
	payload := statusPayload{
		State:            e.Scheduler.State().String(),
		Kind:             e.Scheduler.ActiveKind().String(),
		ProgressFraction: e.Scheduler.ProgressFraction(),
		StatusText:       e.Scheduler.StatusText(),
		RegistryCount:    e.Session.Registry.Count(),
	}
	if err := e.Scheduler.LastErr(); err != nil {
		payload.LastError = err.Error()
	}

	writeJSON(w, http.StatusOK, payload)
}

// Registry lists the session's source records, marking stale placements.
func (e *Engine) Registry(w http.ResponseWriter, r *http.Request) {
	records := e.Session.Registry.All()

	payload := make([]recordPayload, 0, len(records))
	for _, record := range records {
		payload = append(payload, recordPayload{
			ID:               record.ID,
			Name:             record.Name,
			MiddlewarePath:   record.MiddlewarePath,
			OriginalFilePath: record.OriginalFilePath,
			LocalFilePath:    record.LocalFilePath,
			ItemRef:          string(record.ItemRef),
			Stale:            !e.Session.Host.ItemExists(record.ItemRef),
		})
	}

	writeJSON(w, http.StatusOK, payload)
}

// Import resolves the middleware's current selection and starts an import task.
func (e *Engine) Import(w http.ResponseWriter, r *http.Request) {
	descriptors, err := e.Resolver.ResolveSelection(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	task := tasks.NewImportTask(e.Session, descriptors, nil)
	if err := e.Scheduler.Start(task); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"started": "import", "sources": len(descriptors)})
}

// Render starts a render task over the host's current selection.
func (e *Engine) Render(w http.ResponseWriter, r *http.Request) {
	task := tasks.NewRenderTask(e.Session, nil)
	if err := e.Scheduler.Start(task); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"started": "render"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrTaskRunning):
		status = http.StatusConflict
	case errors.Is(err, shared.ErrNotConnected), errors.Is(err, shared.ErrConnection):
		status = http.StatusBadGateway
	case errors.Is(err, shared.ErrNothingSelected), errors.Is(err, shared.ErrEmptyRegistry):
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
