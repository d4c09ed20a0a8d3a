package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
)

// Peer is an attached secondary context. C yields encoded SYNC_STATE envelopes.
type Peer struct {
	C    <-chan []byte
	ch   chan []byte
	id   int
	once sync.Once
}

// Hub fans outbound snapshots out to attached peers.
// With nothing attached Broadcast does nothing.
type Hub struct {
	mu     sync.Mutex
	peers  map[int]*Peer
	nextID int
	buffer int
}

// NewHub creates a hub whose peers buffer up to buffer messages
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{peers: map[int]*Peer{}, buffer: buffer}
}

// Attach registers a new peer
func (h *Hub) Attach() *Peer {
	ch := make(chan []byte, h.buffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	p := &Peer{C: ch, ch: ch, id: h.nextID}
	h.nextID++
	h.peers[p.id] = p
	logger.Debug("Peer attached", logger.F("peer", p.id), logger.F("peers", len(h.peers)))
	return p
}

// Detach removes p and closes its channel
func (h *Hub) Detach(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p.id]; !ok {
		return
	}
	delete(h.peers, p.id)
	p.once.Do(func() { close(p.ch) })
	logger.Debug("Peer detached", logger.F("peer", p.id), logger.F("peers", len(h.peers)))
}

// Peers returns the number of attached peers
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Broadcast sends state to every peer without blocking. A peer whose buffer
// is full misses this message and sees the next one.
func (h *Hub) Broadcast(state model.AppState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.peers) == 0 {
		return
	}

	msg, err := json.Marshal(NewSyncState(state))
	if err != nil {
		logger.Warn("Failed to encode broadcast", logger.F("error", err))
		return
	}

	for _, p := range h.peers {
		select {
		case p.ch <- msg:
		default:
			logger.Debug("Peer busy, broadcast dropped", logger.F("peer", p.id))
		}
	}
}
