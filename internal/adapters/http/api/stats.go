package api

import "net/http"

// StatsProvider reports the service state: the started flag, the demo
// client id and, once started, client and template counts.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats. A service that has not started answers
// 503 with the same body so probes can tell the two apart.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.statsProvider.GetStats()
	w.Header().Set("Cache-Control", "no-store")

	status := http.StatusOK
	if started, _ := stats["started"].(bool); !started {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, stats)
}
