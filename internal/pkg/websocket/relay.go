package websocket

import "github.com/yigit/campusconnect/internal/pkg/eventbus"

// Relay pushes bus events to the recipient's local connections.
// It is an eventbus.Handler.
func (h *Hub) Relay(ev eventbus.Event) {
	if ev.RecipientID == 0 {
		return
	}
	h.SendToUser(ev.RecipientID, ev.Type, ev.Data)
}
