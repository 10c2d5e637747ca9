package main

import (
	"context"
	"testing"
	"time"

	"github.com/gartstein/counterparty/internal/counterparty/events"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handle := logEvent(zap.New(core))

	err := handle(context.Background(), events.Event{
		Type:         events.CounterpartyInvited,
		SessionID:    "s-1",
		Counterparty: &models.Counterparty{ID: "3", Status: models.StatusInvited},
		OccurredAt:   time.Now(),
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "counterparty_invited", fields["type"])
	assert.Equal(t, "3", fields["counterparty_id"])
	assert.Equal(t, "invited", fields["status"])
	assert.NotContains(t, fields, "file_name")
}
