// Package tts invoca el servicio remoto de síntesis de voz.
package tts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"vozBot/internal/domain"
	"vozBot/internal/logger"
)

const defaultPollyURL = "https://api.streamelements.com/kappa/v2/speech"

// Request es un elemento de la cola de reproducción: la frase ya anunciada
// y la voz ya resuelta.
type Request struct {
	ID          string
	Text        string
	Voice       domain.ResolvedVoice
	RequestedBy string
	CreatedAt   time.Time
}

type Config struct {
	// PollyURL permite apuntar a otro endpoint (tests). Vacío usa el real.
	PollyURL string
	// FallbackLang es el código de idioma del motor de respaldo.
	FallbackLang string
	// Timeout acota cada llamada de síntesis.
	Timeout time.Duration
}

type Service struct {
	engines []Engine
}

func NewService(cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpCli := &http.Client{Timeout: timeout}

	baseURL := strings.TrimSpace(cfg.PollyURL)
	if baseURL == "" {
		baseURL = defaultPollyURL
	}

	return &Service{
		engines: []Engine{
			&pollyEngine{baseURL: baseURL, httpCli: httpCli},
			&translateEngine{lang: cfg.FallbackLang, httpCli: httpCli},
		},
	}
}

// NewServiceWithEngines existe para los tests y para enchufar motores propios.
func NewServiceWithEngines(engines ...Engine) *Service {
	return &Service{engines: engines}
}

// Synthesize prueba cada motor una sola vez, en orden. Sin reintentos por
// motor: con el chat a tope, reintentar aquí atascaría toda la cola.
func (s *Service) Synthesize(ctx context.Context, text string, voice domain.ResolvedVoice) (domain.AudioClip, error) {
	var lastErr error
	for _, engine := range s.engines {
		audio, err := engine.Fetch(ctx, text, voice.ID)
		if err != nil {
			logger.Errorf("motor %s falló: %v", engine.Name(), err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(audio) == 0 {
			logger.Warnf("motor %s devolvió audio vacío", engine.Name())
			continue
		}
		return domain.AudioClip{Data: audio, Format: "mp3"}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("ningún motor produjo audio")
	}
	return domain.AudioClip{}, &domain.SynthesisError{Voice: voice.ID, Err: lastErr}
}

var _ domain.Synthesizer = (*Service)(nil)
