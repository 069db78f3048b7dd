package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var ErrHubClosed = errors.New("hub is closed")

// Subscriber receives board messages. Send must not block.
type Subscriber interface {
	ID() string
	Send(message []byte) error
}

// Relay carries broadcasts between hub instances of different processes.
// Run calls ready once its subscription is live and returns when it is lost.
type Relay interface {
	Publish(ctx context.Context, boardID string, message []byte) error
	Run(ctx context.Context, ready func(), deliver func(boardID string, message []byte)) error
}

const (
	defaultRelayRetryMin = 500 * time.Millisecond
	defaultRelayRetryMax = 30 * time.Second
)

// MetricsRecorder receives hub delivery statistics.
type MetricsRecorder interface {
	SetRealtimeSubscribers(count int)
	RecordRealtimeBroadcast(delivered, dropped int)
}

type Option func(*Hub)

func WithRelay(relay Relay) Option {
	return func(h *Hub) { h.relay = relay }
}

func WithMetrics(m MetricsRecorder) Option {
	return func(h *Hub) { h.metrics = m }
}

// WithRelayRetry sets the backoff bounds used to resubscribe a lost relay.
func WithRelayRetry(minDelay, maxDelay time.Duration) Option {
	return func(h *Hub) {
		h.retryMin = minDelay
		h.retryMax = maxDelay
	}
}

// Hub is the board-scoped subscriber registry. One mutex guards the map;
// delivery happens on a snapshot outside the lock.
type Hub struct {
	mu     sync.Mutex
	boards map[string][]Subscriber
	total  int
	closed bool

	relay   Relay
	metrics MetricsRecorder
	logger  *zap.Logger

	// relayLive is set only while the relay subscription feeds local delivery.
	relayLive atomic.Bool
	retryMin  time.Duration
	retryMax  time.Duration

	cancel   context.CancelFunc
	relayEnd chan struct{}
}

// relayEnvelope lets a receiving process honour BroadcastExcept.
type relayEnvelope struct {
	Except  string          `json:"except,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(logger *zap.Logger, opts ...Option) *Hub {
	h := &Hub{
		boards:   make(map[string][]Subscriber),
		logger:   logger,
		retryMin: defaultRelayRetryMin,
		retryMax: defaultRelayRetryMax,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.relay != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		h.relayEnd = make(chan struct{})
		go h.consumeRelay(ctx)
	}
	return h
}

// Subscribe registers sub for boardID. Registering the same subscriber twice is a no-op.
func (h *Hub) Subscribe(boardID string, sub Subscriber) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	for _, existing := range h.boards[boardID] {
		if existing.ID() == sub.ID() {
			h.mu.Unlock()
			return nil
		}
	}
	h.boards[boardID] = append(h.boards[boardID], sub)
	h.total++
	total := h.total
	h.mu.Unlock()

	h.recordSubscribers(total)
	h.logger.Debug("Subscriber added",
		zap.String("board_id", boardID),
		zap.String("subscriber_id", sub.ID()),
	)
	return nil
}

// Unsubscribe removes sub and drops the board entry once it is empty.
func (h *Hub) Unsubscribe(boardID string, sub Subscriber) {
	h.mu.Lock()
	subs := h.boards[boardID]
	removed := false
	for i, existing := range subs {
		if existing.ID() == sub.ID() {
			subs = append(subs[:i:i], subs[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		h.total--
		if len(subs) == 0 {
			delete(h.boards, boardID)
		} else {
			h.boards[boardID] = subs
		}
	}
	total := h.total
	h.mu.Unlock()

	if removed {
		h.recordSubscribers(total)
		h.logger.Debug("Subscriber removed",
			zap.String("board_id", boardID),
			zap.String("subscriber_id", sub.ID()),
		)
	}
}

// Broadcast delivers message to every subscriber of boardID.
func (h *Hub) Broadcast(ctx context.Context, boardID string, message []byte) {
	h.broadcast(ctx, boardID, message, "")
}

// BroadcastExcept delivers message to every subscriber of boardID other than except.
func (h *Hub) BroadcastExcept(ctx context.Context, boardID string, message []byte, except Subscriber) {
	exceptID := ""
	if except != nil {
		exceptID = except.ID()
	}
	h.broadcast(ctx, boardID, message, exceptID)
}

// Publish encodes event and broadcasts it to the event's board.
func (h *Hub) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("type", string(event.Type)), zap.Error(err))
		return
	}
	h.Broadcast(ctx, event.BoardID, payload)
}

// RelayLive reports whether broadcasts currently travel through the relay.
func (h *Hub) RelayLive() bool {
	return h.relay != nil && h.relayLive.Load()
}

// broadcast uses the relay only while its subscription is live and delivers
// locally otherwise.
func (h *Hub) broadcast(ctx context.Context, boardID string, message []byte, exceptID string) {
	if h.RelayLive() {
		envelope, err := json.Marshal(relayEnvelope{Except: exceptID, Payload: message})
		if err == nil {
			if err = h.relay.Publish(ctx, boardID, envelope); err == nil {
				return
			}
		}
		h.logger.Warn("Relay publish failed, delivering locally",
			zap.String("board_id", boardID),
			zap.Error(err),
		)
	}
	h.deliver(boardID, message, exceptID)
}

func (h *Hub) deliver(boardID string, message []byte, exceptID string) {
	h.mu.Lock()
	snapshot := append([]Subscriber(nil), h.boards[boardID]...)
	h.mu.Unlock()

	delivered, dropped := 0, 0
	for _, sub := range snapshot {
		if sub.ID() == exceptID {
			continue
		}
		if err := sub.Send(message); err != nil {
			dropped++
			h.logger.Warn("Failed to deliver board message",
				zap.String("board_id", boardID),
				zap.String("subscriber_id", sub.ID()),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	if h.metrics != nil {
		h.metrics.RecordRealtimeBroadcast(delivered, dropped)
	}
}

// consumeRelay keeps the relay subscription alive until ctx ends,
// resubscribing with exponential backoff whenever Run returns.
func (h *Hub) consumeRelay(ctx context.Context) {
	defer close(h.relayEnd)

	deliver := func(boardID string, raw []byte) {
		var envelope relayEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			h.logger.Warn("Discarding malformed relay message", zap.String("board_id", boardID), zap.Error(err))
			return
		}
		h.deliver(boardID, envelope.Payload, envelope.Except)
	}

	backoff := h.retryMin
	for {
		var connected atomic.Bool
		err := h.relay.Run(ctx, func() {
			connected.Store(true)
			h.relayLive.Store(true)
			h.logger.Info("Relay subscription live")
		}, deliver)
		h.relayLive.Store(false)

		if ctx.Err() != nil {
			return
		}
		if connected.Load() {
			backoff = h.retryMin
		}
		h.logger.Warn("Relay subscription lost, delivering locally until it recovers",
			zap.Duration("retry_in", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > h.retryMax {
			backoff = h.retryMax
		}
	}
}

// SubscriberCount returns the number of subscribers of boardID.
func (h *Hub) SubscriberCount(boardID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.boards[boardID])
}

// BoardCount returns the number of boards with at least one subscriber.
func (h *Hub) BoardCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.boards)
}

// Close stops the relay and closes every registered subscriber that supports it.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	var all []Subscriber
	for _, subs := range h.boards {
		all = append(all, subs...)
	}
	h.boards = make(map[string][]Subscriber)
	h.total = 0
	h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		<-h.relayEnd
	}

	for _, sub := range all {
		if closer, ok := sub.(interface{ Close() }); ok {
			closer.Close()
		}
	}
	h.recordSubscribers(0)
}

func (h *Hub) recordSubscribers(total int) {
	if h.metrics != nil {
		h.metrics.SetRealtimeSubscribers(total)
	}
}
