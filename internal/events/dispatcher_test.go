package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcher_PublishToSubscribers(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var got []string
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.UserID)
		return errors.New("smtp down")
	})
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.UserID)
		return nil
	})
	d.Subscribe(EventPasswordChanged, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	event := NewEvent(EventUserCreated, "u1", time.Now(), UserCreatedPayload{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, d.Publish(context.Background(), event))

	assert.Equal(t, []string{"first:u1", "second:u1"}, got)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	e := NewEvent(EventPasswordResetRequested, "u1", at, nil)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.True(t, e.Timestamp.Equal(at))
}
