package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	snapshotdoc "github.com/carson-networks/udhaar-ledger/internal/snapshot"
)

// ExportOutput streams the snapshot document as a file download.
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ImportInput carries the snapshot document exactly as uploaded.
type ImportInput struct {
	RawBody []byte `contentType:"application/json"`
}

// ImportResponse reports whether the restore was applied.
type ImportResponse struct {
	Success bool `json:"success" doc:"False when the payload was rejected; stored data is then unchanged"`
}

// ImportOutput is the Huma output for importing a snapshot.
type ImportOutput struct {
	Body ImportResponse
}

// ClearOutput is the Huma output for clearing all data.
type ClearOutput struct {
	Status int
}

// snapshotter is the interface for whole-ledger backup and restore.
type snapshotter interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) bool
	Clear(ctx context.Context) error
}

// Handler handles /v1/snapshot and /v1/data.
type Handler struct {
	SnapshotService snapshotter
	Now             func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(svc snapshotter) *Handler {
	return &Handler{SnapshotService: svc, Now: time.Now}
}

// Register registers the snapshot endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "export-snapshot",
		Method:      http.MethodGet,
		Path:        "/v1/snapshot",
		Summary:     "Export snapshot",
		Description: "Downloads customers, transactions and profile as one JSON document.",
		Tags:        []string{"Snapshot"},
	}, h.handleExport)

	huma.Register(api, huma.Operation{
		OperationID: "import-snapshot",
		Method:      http.MethodPost,
		Path:        "/v1/snapshot",
		Summary:     "Import snapshot",
		Description: "Replaces every collection present in the uploaded document.",
		Tags:        []string{"Snapshot"},

		// A damaged backup must reach Import and come back as success=false.
		SkipValidateBody: true,
	}, h.handleImport)

	huma.Register(api, huma.Operation{
		OperationID:   "clear-data",
		Method:        http.MethodDelete,
		Path:          "/v1/data",
		Summary:       "Clear all data",
		Description:   "Deletes every customer and transaction and resets the profile.",
		Tags:          []string{"Snapshot"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleClear)
}

func (h *Handler) handleExport(ctx context.Context, _ *struct{}) (*ExportOutput, error) {
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("exportMs")
	data, err := h.SnapshotService.Export(ctx)
	stopTimer()
	if err != nil {
		return nil, apierror.FromLedger("failed to export snapshot", err)
	}
	logData.AddData("snapshotBytes", len(data))

	return &ExportOutput{
		ContentType:        "application/json",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", snapshotdoc.FileName(h.Now())),
		Body:               data,
	}, nil
}

func (h *Handler) handleImport(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("snapshotBytes", len(input.RawBody))

	ok := h.SnapshotService.Import(ctx, input.RawBody)
	logData.AddData("importSuccess", ok)
	return &ImportOutput{Body: ImportResponse{Success: ok}}, nil
}

func (h *Handler) handleClear(ctx context.Context, _ *struct{}) (*ClearOutput, error) {
	if err := h.SnapshotService.Clear(ctx); err != nil {
		return nil, apierror.FromLedger("failed to clear data", err)
	}
	return &ClearOutput{Status: http.StatusNoContent}, nil
}
