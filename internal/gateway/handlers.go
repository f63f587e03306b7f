package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"signaldesk/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// Source serves the latest published reports. Both the Hub and the Redis
// reader satisfy it.
type Source interface {
	Latest(ctx context.Context) (model.CycleReport, error)
	Instrument(ctx context.Context, symbol string) (model.InstrumentReport, error)
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// RegisterRoutes registers the gateway routes on mux. health may be nil.
func RegisterRoutes(mux *http.ServeMux, hub *Hub, src Source, health http.Handler, log *zap.Logger) {
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		hub.Register(conn, since)
	})

	mux.HandleFunc("GET /api/signals/history", func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= historySize {
			limit = v
		}
		writeJSON(w, http.StatusOK, hub.History(limit))
	})

	mux.HandleFunc("GET /api/signals/latest", func(w http.ResponseWriter, r *http.Request) {
		report, err := src.Latest(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	mux.HandleFunc("GET /api/signals/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.ToUpper(r.PathValue("symbol"))
		ir, err := src.Instrument(r.Context(), symbol)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, ir)
	})

	if health != nil {
		mux.Handle("GET /healthz", health)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	SetCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	if errors.Is(err, model.ErrNoReport) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	log.Error("signal lookup failed", zap.Error(err))
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "signal store unavailable"})
}
