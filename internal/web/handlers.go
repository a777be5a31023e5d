package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"time"
)

// Status is the JSON snapshot of the running search served by GET /status.
type Status struct {
	Phase        string  `json:"phase"`
	CurrentStep  int     `json:"current_step"`
	BestStep     int     `json:"best_step"`
	BestScore    float64 `json:"best_score"`
	LastScore    float64 `json:"last_score"`
	DeclineCount int     `json:"decline_count"`
	LensPosition int     `json:"lens_position"` // last commanded step, -1 before first write
}

// StatusFunc returns the current search status.
type StatusFunc func() Status

// RestartFunc queues a search restart for the session loop.
// It returns false when the restart could not be queued (session gone
// or queue full).
type RestartFunc func() bool

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Status      StatusFunc
	Restart     RestartFunc
	staticFS    fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If restart is nil, POST /restart will return 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, status StatusFunc, restart RestartFunc, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Status:      status,
		Restart:     restart,
		staticFS:    staticFS,
	}
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleStatus returns the current search state as JSON.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if h.Status == nil {
		http.Error(w, "status not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Status())
}

// HandleRestart queues a search restart (same as pressing 'r').
func (h *Handlers) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if h.Restart == nil {
		http.Error(w, "restart not configured", http.StatusServiceUnavailable)
		return
	}
	if !h.Restart() {
		http.Error(w, "restart already pending", http.StatusConflict)
		return
	}
	h.Broadcaster.BroadcastMsg("Restart requested from web UI")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "restart queued"})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
