package domain

import (
	"errors"
	"fmt"
)

// ErrNotACommand indica que el mensaje no es una orden de voz (no empieza
// con el marcador, o no trae texto que anunciar).
var ErrNotACommand = errors.New("mensaje no es un comando de voz")

// SpeechRequest es el resultado de parsear un comando "!voz texto".
type SpeechRequest struct {
	VoiceID string
	Text    string
}

// ResolvedVoice es la voz concreta del backend, ya normalizada.
type ResolvedVoice struct {
	ID string
}

// AudioClip son los bytes de audio que devuelve la síntesis.
type AudioClip struct {
	Data   []byte
	Format string
}

type SynthesisError struct {
	Voice string
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("síntesis falló (voz %s): %v", e.Voice, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

type PlaybackError struct {
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("reproducción falló: %v", e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
