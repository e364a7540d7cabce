package eventbus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_DeliversToAllHandlers(t *testing.T) {
	bus := NewLocalBus()
	var got []int64

	require.NoError(t, bus.Subscribe(func(ev Event) { got = append(got, ev.RecipientID) }))
	require.NoError(t, bus.Subscribe(func(ev Event) { got = append(got, ev.RecipientID*10) }))

	ev, err := NewEvent(TypeMessageCreated, 4, map[string]string{"content": "hi"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))

	assert.Equal(t, []int64{4, 40}, got)
}

func TestNewEvent_MarshalsData(t *testing.T) {
	ev, err := NewEvent(TypeMessageCreated, 2, struct {
		ID int64 `json:"id"`
	}{ID: 9})
	require.NoError(t, err)

	var data map[string]int64
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, int64(9), data["id"])
}

func TestNATSBus_Subject(t *testing.T) {
	bus := NewNATSBus(nil, "cc.prod.", zerolog.Nop())
	assert.Equal(t, "cc.prod.message.created", bus.Subject(TypeMessageCreated))

	bus = NewNATSBus(nil, "", zerolog.Nop())
	assert.Equal(t, "campusconnect.message.created", bus.Subject(TypeMessageCreated))
}

func TestNATSBus_PublishWithoutConnection(t *testing.T) {
	bus := NewNATSBus(nil, "cc", zerolog.Nop())
	err := bus.Publish(context.Background(), Event{Type: TypeMessageCreated})
	assert.Error(t, err)
	assert.NoError(t, bus.Close())
}
