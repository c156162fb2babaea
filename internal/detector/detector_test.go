package detector

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivelabs/hivesync/internal/dispatcher"
	"github.com/hivelabs/hivesync/internal/models"
)

func TestHooks_ForwardMutations(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	var messages []models.SyncMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg models.SyncMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		mu.Lock()
		paths = append(paths, r.URL.Path)
		messages = append(messages, msg)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := dispatcher.New(dispatcher.Options{
		Endpoint: srv.URL,
		Secret:   "s3cr3t",
		Workers:  1,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	hooks := NewHooks(d)

	hooks.AfterCreate("users", "u1", map[string]any{"email": "a@x.com"})
	hooks.AfterUpdate("users", "u1", map[string]any{"name": "A"})
	hooks.AfterDelete("users", "u1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"/sync", "/sync", "/sync"}, paths)
	assert.Equal(t, models.OpCreate, messages[0].Operation)
	assert.Equal(t, models.OpUpdate, messages[1].Operation)
	assert.Equal(t, models.OpDelete, messages[2].Operation)
	assert.Nil(t, messages[2].Data, "delete carries no payload")
}

func TestHooks_AfterBulkChange(t *testing.T) {
	var mu sync.Mutex
	var batches []models.BatchMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg models.BatchMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		mu.Lock()
		batches = append(batches, msg)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := dispatcher.New(dispatcher.Options{
		Endpoint: srv.URL,
		Secret:   "s3cr3t",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	hooks := NewHooks(d)

	hooks.AfterBulkChange("posts", models.OpCreate, []models.BatchRecord{
		{RecordID: "p1", Data: map[string]any{"title": "one"}},
		{RecordID: "p2", Data: map[string]any{"title": "two"}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	assert.Equal(t, "posts", batches[0].Model)
	require.Len(t, batches[0].Records, 2)
}
