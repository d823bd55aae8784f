package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carson-networks/udhaar-ledger/internal/logging"
)

// Pinger checks the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Storage Pinger
}

func NewHandler(storage Pinger) Handler {
	return Handler{Storage: storage}
}

type statusBody struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	body := statusBody{Status: "ok", Storage: "ok"}
	code := http.StatusOK
	if h.Storage != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		endTimer := logData.AddTiming("storagePing")
		err := h.Storage.Ping(ctx)
		endTimer()
		if err != nil {
			logData.AddData("storageError", err.Error())
			body = statusBody{Status: "degraded", Storage: "unavailable"}
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(body)
}
