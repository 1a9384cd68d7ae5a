package websocket

import (
	"context"
	"errors"
	"sync"
)

// Hub keeps clients grouped by lane. Registration changes go through Run so
// only one goroutine edits the membership maps.
type Hub struct {
	mu      sync.RWMutex
	lanes   map[string]map[Client]context.CancelFunc
	laneOf  map[Client]string
	join    chan hubReq
	leave   chan hubReq
	stopped chan struct{}
}

type hubReq struct {
	lane   string
	cancel context.CancelFunc
	client Client
	done   chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		lanes:   make(map[string]map[Client]context.CancelFunc),
		laneOf:  make(map[Client]string),
		join:    make(chan hubReq),
		leave:   make(chan hubReq),
		stopped: make(chan struct{}),
	}
}

// Run processes joins and leaves until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.laneOf {
				h.drop(c)
			}
			h.mu.Unlock()
			return
		case r := <-h.join:
			h.mu.Lock()
			if h.lanes[r.lane] == nil {
				h.lanes[r.lane] = make(map[Client]context.CancelFunc)
			}
			h.lanes[r.lane][r.client] = r.cancel
			h.laneOf[r.client] = r.lane
			h.mu.Unlock()
			close(r.done)
		case r := <-h.leave:
			h.mu.Lock()
			h.drop(r.client)
			h.mu.Unlock()
			close(r.done)
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c Client) {
	lane, ok := h.laneOf[c]
	if !ok {
		return
	}
	if cancel := h.lanes[lane][c]; cancel != nil {
		cancel()
	}
	delete(h.lanes[lane], c)
	if len(h.lanes[lane]) == 0 {
		delete(h.lanes, lane)
	}
	delete(h.laneOf, c)
	_ = c.Close()
}

// Join adds c to lane. cancel is called when c leaves.
func (h *Hub) Join(lane string, cancel context.CancelFunc, c Client) {
	h.send(h.join, hubReq{lane: lane, cancel: cancel, client: c})
}

// Leave removes and closes c. Unknown clients are ignored.
func (h *Hub) Leave(c Client) {
	h.send(h.leave, hubReq{client: c})
}

func (h *Hub) send(ch chan hubReq, r hubReq) {
	r.done = make(chan struct{})
	select {
	case ch <- r:
		<-r.done
	case <-h.stopped:
		if r.cancel != nil {
			r.cancel()
		}
		_ = r.client.Close()
	}
}

// Broadcast queues msg on every client in lane.
func (h *Hub) Broadcast(lane string, msg []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var errs []error
	for c := range h.lanes[lane] {
		if _, err := c.Write(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseLane disconnects every client in lane.
func (h *Hub) CloseLane(lane string) {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.lanes[lane]))
	for c := range h.lanes[lane] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Leave(c)
	}
}

func (h *Hub) Count(lane string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lanes[lane])
}

func (h *Hub) Lanes() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.lanes))
	for lane := range h.lanes {
		out = append(out, lane)
	}
	return out
}
