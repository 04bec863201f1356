// Package events es un bus de publicación/suscripción en memoria para que
// el pipeline informe de lo que hace sin acoplarse a quien escucha.
package events

import (
	"sync"

	"vozBot/internal/logger"
)

const (
	TopicChatMessage = "chat:message"
	TopicTTSStatus   = "tts:status"
	TopicTTSSpoken   = "tts:spoken"
	TopicAppError    = "app:error"

	defaultBufferSize = 128
)

type Bus struct {
	mu        sync.RWMutex
	subs      map[string]map[int]chan any
	nextSubID int
	closed    bool

	dropMu     sync.Mutex
	dropCounts map[string]uint64
}

func NewBus() *Bus {
	return &Bus{
		subs:       make(map[string]map[int]chan any),
		dropCounts: make(map[string]uint64),
	}
}

// Publish nunca bloquea: si un suscriptor va lento, su mensaje se descarta.
// Los envíos ocurren bajo el lock de lectura para que ningún canal pueda
// cerrarse a mitad del reparto.
func (b *Bus) Publish(topic string, payload any) {
	if topic == "" {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			b.recordDrop(topic)
		}
	}
}

func (b *Bus) Subscribe(topic string) (<-chan any, func()) {
	ch := make(chan any, defaultBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = make(map[string]map[int]chan any)
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan any)
	}
	id := b.nextSubID
	b.nextSubID++
	b.subs[topic][id] = ch
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs, ok := b.subs[topic]
		if !ok {
			return
		}
		if _, ok := subs[id]; !ok {
			// Ya lo cerró Close (o una cancelación repetida).
			return
		}
		delete(subs, id)
		if len(subs) == 0 {
			delete(b.subs, topic)
		}
		close(ch)
	}

	return ch, unsubscribe
}

// Close corta el bus: cierra los canales de todos los suscriptores y hace
// que cualquier Publish posterior sea un no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	for topic, subs := range b.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subs, topic)
	}
}

func (b *Bus) recordDrop(topic string) {
	b.dropMu.Lock()
	defer b.dropMu.Unlock()
	if b.dropCounts == nil {
		b.dropCounts = make(map[string]uint64)
	}
	b.dropCounts[topic]++
	if b.dropCounts[topic]%100 == 1 {
		logger.Warnf("events: descartando mensajes de %s (total: %d)", topic, b.dropCounts[topic])
	}
}
