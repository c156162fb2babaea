package detector

import (
	"github.com/hivelabs/hivesync/internal/dispatcher"
	"github.com/hivelabs/hivesync/internal/models"
)

// Hooks is the seam between the host application's commit path and the sync
// relay. The host calls the matching hook immediately after a local mutation
// commits; the hook hands the change to the dispatcher and returns without
// waiting on network I/O.
type Hooks struct {
	dispatcher *dispatcher.Dispatcher
}

func NewHooks(d *dispatcher.Dispatcher) *Hooks {
	return &Hooks{dispatcher: d}
}

func (h *Hooks) AfterCreate(model, recordID string, data map[string]any) {
	h.dispatcher.Dispatch(model, models.OpCreate, recordID, data)
}

func (h *Hooks) AfterUpdate(model, recordID string, data map[string]any) {
	h.dispatcher.Dispatch(model, models.OpUpdate, recordID, data)
}

func (h *Hooks) AfterDelete(model, recordID string) {
	h.dispatcher.Dispatch(model, models.OpDelete, recordID, nil)
}

// AfterBulkChange forwards a multi-record mutation of one kind as a single
// batch request.
func (h *Hooks) AfterBulkChange(model string, op models.Operation, records []models.BatchRecord) {
	h.dispatcher.DispatchBatch(model, op, records)
}
