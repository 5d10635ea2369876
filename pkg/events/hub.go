package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer is how many events a subscriber may lag behind before
// new events are dropped for it.
const subscriberBuffer = 16

// EventHub fans daemon events out to SSE subscribers.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
	now  func() time.Time
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan Event]struct{}), now: time.Now}
}

func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// SubscribeContext subscribes until ctx is done, then closes the channel.
func (h *EventHub) SubscribeContext(ctx context.Context) <-chan Event {
	ch := h.Subscribe()
	go func() {
		<-ctx.Done()
		h.Unsubscribe(ch)
	}()
	return ch
}

func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of active subscribers.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// CalculationDone publishes calculation.completed, or calculation.failed
// with the error class and message when err is non-nil.
func (h *EventHub) CalculationDone(ev CalculationEvent, class string, err error) {
	if h == nil {
		return
	}
	ev.Ts = h.now().Unix()
	if err != nil {
		ev.Class = class
		ev.Message = err.Error()
		h.Publish(CalculationFailed, ev)
		return
	}
	h.Publish(CalculationCompleted, ev)
}

// SettingChanged publishes config.changed for one setting.
func (h *EventHub) SettingChanged(key, value string) {
	if h == nil {
		return
	}
	h.Publish(ConfigChanged, ConfigChangedEvent{Key: key, Value: value, Ts: h.now().Unix()})
}

func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Error("failed to marshal event")
		return
	}
	msg := Event{Name: name, Data: b}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		logrus.WithField("event", name).Debugf("dropped event for %d slow subscriber(s)", dropped)
	}
}
