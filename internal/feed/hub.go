package feed

import (
	"sync"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"
)

// Message is one committed command's worth of events.
type Message struct {
	GameID uint         `json:"game_id"`
	Batch  string       `json:"batch"`
	Events []game.Event `json:"events"`
}

const subscriberBuffer = 16

// Hub fans committed events out to spectator connections. Publish never
// blocks: a subscriber whose buffer is full misses the message and is
// expected to catch up through the events endpoint.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[chan Message]struct{})}
}

// Subscribe registers a listener for gameID. The returned cancel func
// must be called to release it; it closes the channel.
func (h *Hub) Subscribe(gameID uint) (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)
	h.mu.Lock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[chan Message]struct{})
	}
	h.subs[gameID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[gameID], ch)
			if len(h.subs[gameID]) == 0 {
				delete(h.subs, gameID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber of msg.GameID.
func (h *Hub) Publish(msg Message) {
	if len(msg.Events) == 0 {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for ch := range h.subs[msg.GameID] {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		logging.Warn("feed subscriber lagging, message dropped", logging.Fields{
			constants.LogFieldGameID: msg.GameID,
			constants.LogFieldBatch:  msg.Batch,
			"dropped":                dropped,
		})
	}
}

// Subscribers reports the number of listeners for gameID.
func (h *Hub) Subscribers(gameID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[gameID])
}
