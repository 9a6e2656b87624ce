package ws

import (
	"sync"

	"casino-service/internal/service/session"
	"casino-service/pkg/logger"

	"go.uber.org/zap"
)

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

// Hub fans session state out to websocket subscribers. It implements session.View.
type Hub struct {
	mu          sync.Mutex
	seq         int64
	subscribers map[string]map[chan OutgoingMessage]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan OutgoingMessage]struct{})}
}

func (h *Hub) Subscribe(key string) chan OutgoingMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan OutgoingMessage, 8)
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[chan OutgoingMessage]struct{})
	}
	h.subscribers[key][ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(key string, ch chan OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[key]
	if !ok {
		return
	}
	if _, ok := subs[ch]; ok {
		delete(subs, ch)
		close(ch)
	}
	if len(subs) == 0 {
		delete(h.subscribers, key)
	}
}

func (h *Hub) Render(key string, state session.State) {
	h.Publish(key, "state", state)
}

// Publish sends to every subscriber of key without blocking; full channels drop the message.
func (h *Hub) Publish(key, msgType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	msg := OutgoingMessage{Type: msgType, Seq: h.seq, Data: data}
	for ch := range h.subscribers[key] {
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("ws subscriber channel full", zap.String("session", key))
		}
	}
}

func (h *Hub) Subscribers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[key])
}
