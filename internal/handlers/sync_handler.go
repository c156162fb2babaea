package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hivelabs/hivesync/internal/logging"
	"github.com/hivelabs/hivesync/internal/metrics"
	"github.com/hivelabs/hivesync/internal/models"
	"github.com/hivelabs/hivesync/internal/registry"
	"github.com/hivelabs/hivesync/internal/repositories"
)

// SyncHandler applies inbound sync messages to the target store. One
// RecordRepository per allow-listed model; the registry is the single source
// of that allow-list.
type SyncHandler struct {
	registry *registry.Registry
	repos    map[string]repositories.RecordRepository
	status   repositories.SyncStatusRepository
	log      *slog.Logger
}

func NewSyncHandler(
	reg *registry.Registry,
	repos map[string]repositories.RecordRepository,
	status repositories.SyncStatusRepository,
	log *slog.Logger,
) *SyncHandler {
	return &SyncHandler{
		registry: reg,
		repos:    repos,
		status:   status,
		log:      log,
	}
}

type syncResponse struct {
	Success   bool   `json:"success"`
	Model     string `json:"model"`
	Operation string `json:"operation"`
	RecordID  string `json:"recordId"`
	SyncedAt  int64  `json:"syncedAt"`
}

type syncErrorResponse struct {
	Error     string `json:"error"`
	Model     string `json:"model"`
	Operation string `json:"operation"`
	RecordID  string `json:"recordId"`
}

type batchResponse struct {
	Success    bool `json:"success"`
	Successful int  `json:"successful"`
	Failed     int  `json:"failed"`
	Total      int  `json:"total"`
}

// HandleSync processes one sync message: validate, resolve the model's
// repository, apply create/update as an upsert or delete idempotently.
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var msg models.SyncMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := msg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	repo, err := h.lookupRepo(msg.Model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.apply(r.Context(), repo, msg.Operation, msg.RecordID, msg.Data); err != nil {
		metrics.MessagesTotal.WithLabelValues(msg.Model, string(msg.Operation), metrics.OutcomeFailed).Inc()
		h.log.Error("failed to apply sync message",
			logging.Model(msg.Model), logging.Operation(string(msg.Operation)),
			logging.RecordID(msg.RecordID), logging.Error(err))
		writeJSON(w, http.StatusInternalServerError, syncErrorResponse{
			Error:     err.Error(),
			Model:     msg.Model,
			Operation: string(msg.Operation),
			RecordID:  msg.RecordID,
		})
		return
	}

	metrics.MessagesTotal.WithLabelValues(msg.Model, string(msg.Operation), metrics.OutcomeOK).Inc()
	h.recordStatus(r.Context(), msg.Model, msg.Operation, msg.RecordID)

	writeJSON(w, http.StatusOK, syncResponse{
		Success:   true,
		Model:     msg.Model,
		Operation: string(msg.Operation),
		RecordID:  msg.RecordID,
		SyncedAt:  time.Now().UnixMilli(),
	})
}

// HandleBatch applies every record of a batch independently. One entry's
// failure never aborts the rest; the response reports counts only.
func (h *SyncHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var msg models.BatchMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := msg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	repo, err := h.lookupRepo(msg.Model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	successful, failed := 0, 0
	for _, rec := range msg.Records {
		if rec.RecordID == "" {
			failed++
			metrics.BatchEntriesTotal.WithLabelValues(msg.Model, metrics.OutcomeFailed).Inc()
			h.log.Warn("batch entry missing recordId", logging.Model(msg.Model))
			continue
		}

		if err := h.apply(r.Context(), repo, msg.Operation, rec.RecordID, rec.Data); err != nil {
			failed++
			metrics.BatchEntriesTotal.WithLabelValues(msg.Model, metrics.OutcomeFailed).Inc()
			h.log.Error("failed to apply batch entry",
				logging.Model(msg.Model), logging.Operation(string(msg.Operation)),
				logging.RecordID(rec.RecordID), logging.Error(err))
			continue
		}

		successful++
		metrics.BatchEntriesTotal.WithLabelValues(msg.Model, metrics.OutcomeOK).Inc()
	}

	if successful > 0 {
		h.recordStatus(r.Context(), msg.Model, msg.Operation, "")
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Success:    true,
		Successful: successful,
		Failed:     failed,
		Total:      len(msg.Records),
	})
}

// HandleStatus reports the last applied message per allow-listed model.
func (h *SyncHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	statuses := make(map[string]*models.SyncStatus)
	for _, model := range h.registry.Models() {
		status, err := h.status.GetStatus(r.Context(), model)
		if errors.Is(err, repositories.ErrNotFound) {
			statuses[model] = nil
			continue
		}
		if err != nil {
			h.log.Error("failed to read sync status", logging.Model(model), logging.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read sync status")
			return
		}
		statuses[model] = status
	}

	writeJSON(w, http.StatusOK, map[string]any{"models": statuses})
}

func (h *SyncHandler) lookupRepo(model string) (repositories.RecordRepository, error) {
	if !h.registry.Contains(model) {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownModel, model)
	}
	repo, ok := h.repos[model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownModel, model)
	}
	return repo, nil
}

func (h *SyncHandler) apply(ctx context.Context, repo repositories.RecordRepository, op models.Operation, recordID string, data map[string]any) error {
	switch op {
	case models.OpCreate, models.OpUpdate:
		_, err := repo.Upsert(ctx, recordID, data)
		return err
	case models.OpDelete:
		return repo.Delete(ctx, recordID)
	}
	return fmt.Errorf("unsupported operation %q", op)
}

// recordStatus is observational only; a Redis hiccup must not fail a request
// whose store write already succeeded.
func (h *SyncHandler) recordStatus(ctx context.Context, model string, op models.Operation, recordID string) {
	status := &models.SyncStatus{
		Model:     model,
		Operation: op,
		RecordID:  recordID,
	}
	if err := h.status.SetStatus(ctx, status); err != nil {
		h.log.Warn("failed to record sync status", logging.Model(model), logging.Error(err))
	}
}
