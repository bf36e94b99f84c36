package controllers

import (
	"energymon/internal/models"
	"energymon/internal/services"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	alerts    services.AlertServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status         string               `json:"status"`
	Uptime         string               `json:"uptime"`
	UptimeSeconds  float64              `json:"uptime_seconds"`
	LastEvaluation *models.AlertSummary `json:"last_evaluation,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	}
	if last, ok := hc.alerts.LastSummary(); ok {
		resp.LastEvaluation = &last
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(alerts services.AlertServiceInterface) *HealthController {
	return &HealthController{
		alerts:    alerts,
		startTime: time.Now(),
	}
}
