package controllers

import (
	"fmt"
	"net/http"
	"statcache/internal/models"
	"statcache/internal/storage"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	conn      storage.ConnectorInterface
	fallback  *storage.MemoryBackend
	startTime time.Time
}

type healthResponse struct {
	Status          string         `json:"status"`
	Uptime          string         `json:"uptime"`
	UptimeSeconds   float64        `json:"uptime_seconds"`
	StoreState      string         `json:"store_state"`
	Backend         string         `json:"backend"`
	FallbackRecords map[string]int `json:"fallback_records"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		StoreState:      hc.conn.State().String(),
		Backend:         storage.MemoryBackendName,
		FallbackRecords: make(map[string]int, len(models.Kinds)),
	}
	if hc.conn.IsConnected() {
		resp.Backend = storage.RedisBackendName
	} else {
		resp.Status = "degraded"
	}
	for _, kind := range models.Kinds {
		resp.FallbackRecords[kind.String()] = hc.fallback.Len(kind)
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conn storage.ConnectorInterface, fallback *storage.MemoryBackend) *HealthController {
	return &HealthController{
		conn:      conn,
		fallback:  fallback,
		startTime: time.Now(),
	}
}
