// Package handle_message es el despacho: de evento de chat a petición encolada.
package handle_message

import (
	"context"
	"errors"
	"time"

	"vozBot/internal/app/events"
	"vozBot/internal/domain"
	"vozBot/internal/logger"
	"vozBot/internal/usecase/speech"
	"vozBot/internal/usecase/toggle"
	ttsusecase "vozBot/internal/usecase/tts"
)

// Queue es donde terminan las peticiones ya resueltas (el runner en producción).
type Queue interface {
	Enqueue(ctx context.Context, req ttsusecase.Request) (string, error)
}

type Interactor struct {
	state    *toggle.State
	resolver *speech.Resolver
	queue    Queue
	bus      *events.Bus
}

func NewInteractor(state *toggle.State, resolver *speech.Resolver, queue Queue, bus *events.Bus) *Interactor {
	return &Interactor{
		state:    state,
		resolver: resolver,
		queue:    queue,
		bus:      bus,
	}
}

// Handle procesa un evento de chat en orden de llegada. Parse -> toggle ->
// resolver -> encolar; el trabajo lento (síntesis y reproducción) ocurre en
// el worker de la cola, nunca aquí, para no frenar la ingesta.
func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) error {
	enabled := uc.state.Enabled()

	if enabled {
		logger.Infof("[CHAT] [tts=on] %s: %s", msg.Username, msg.Text)
	} else {
		logger.Warnf("[CHAT] [tts=off] %s: %s", msg.Username, msg.Text)
	}
	if uc.bus != nil {
		uc.bus.Publish(events.TopicChatMessage, events.NewChatMessageDTO(msg, enabled))
	}

	req, err := speech.Parse(msg.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNotACommand) {
			return nil
		}
		return err
	}

	// Apagado significa "deja de hablar", no "pausa": el mensaje se descarta,
	// no se guarda para luego.
	if !enabled {
		return nil
	}

	voice := uc.resolver.Resolve(req.VoiceID)
	logger.Infof("Voz = %s", voice.ID)

	_, err = uc.queue.Enqueue(ctx, ttsusecase.Request{
		Text:        speech.Announce(msg.Username, req.Text),
		Voice:       voice,
		RequestedBy: msg.Username,
		CreatedAt:   time.Now(),
	})
	return err
}
