// Package toggle mantiene el interruptor global del TTS.
package toggle

import (
	"context"
	"sync/atomic"

	"vozBot/internal/domain"
	"vozBot/internal/logger"
)

// State es el interruptor en sí. Se construye por instancia (no hay variable
// de paquete) para que cada test pueda tener el suyo.
type State struct {
	enabled atomic.Bool
	repo    domain.TTSSettingsRepository
}

func NewState(initial bool) *State {
	s := &State{}
	s.enabled.Store(initial)
	return s
}

// AttachRepository hace que cada cambio se persista para el próximo arranque.
func (s *State) AttachRepository(repo domain.TTSSettingsRepository) {
	s.repo = repo
}

func (s *State) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
	if enabled {
		logger.Info("TTS habilitado")
	} else {
		logger.Warn("TTS deshabilitado")
	}

	if s.repo != nil {
		if err := s.repo.SetTTSEnabled(context.Background(), enabled); err != nil {
			logger.Error("no pude guardar el estado del TTS", err)
		}
	}
}

// Enabled es una lectura barata; el dispatch la consulta en cada evento.
func (s *State) Enabled() bool {
	return s.enabled.Load()
}
