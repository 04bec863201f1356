package domain

import "context"

// TTSSettingsRepository persiste las preferencias del TTS entre reinicios.
// GetTTSEnabled devuelve found=false cuando nunca se guardó nada, para que
// el arranque pueda quedarse con el valor configurado.
type TTSSettingsRepository interface {
	SetTTSEnabled(ctx context.Context, enabled bool) error
	GetTTSEnabled(ctx context.Context) (enabled, found bool, err error)
	SetTTSVoice(ctx context.Context, voice string) error
	GetTTSVoice(ctx context.Context) (string, error)
}

// Synthesizer convierte texto en audio con una voz concreta.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice ResolvedVoice) (AudioClip, error)
}

// Player reproduce un clip en la salida de audio local, uno a la vez.
type Player interface {
	Play(ctx context.Context, clip AudioClip) error
}
