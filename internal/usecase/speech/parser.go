// Package speech interpreta comandos de voz del chat: "!<voz> <texto>".
package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"vozBot/internal/domain"
)

// Marker es el prefijo que identifica un comando de voz en el chat.
const Marker = "!"

// DefaultVoiceToken es el identificador reservado que apunta a la voz por defecto.
const DefaultVoiceToken = "m"

// Parse convierte un mensaje crudo en una SpeechRequest. Cualquier mensaje
// que no sea un comando válido devuelve domain.ErrNotACommand; nunca hay
// otro tipo de fallo.
func Parse(raw string) (domain.SpeechRequest, error) {
	if !strings.HasPrefix(raw, Marker) {
		return domain.SpeechRequest{}, domain.ErrNotACommand
	}

	rest := strings.TrimSpace(raw[len(Marker):])
	if rest == "" {
		return domain.SpeechRequest{}, domain.ErrNotACommand
	}

	idx := strings.IndexFunc(rest, unicode.IsSpace)
	if idx < 0 {
		// Solo llegó la voz, no hay nada que anunciar.
		return domain.SpeechRequest{}, domain.ErrNotACommand
	}

	voice := rest[:idx]
	text := strings.TrimSpace(rest[idx:])
	if text == "" {
		return domain.SpeechRequest{}, domain.ErrNotACommand
	}

	return domain.SpeechRequest{VoiceID: voice, Text: text}, nil
}

// Resolver traduce el identificador de voz pedido a la voz real del backend.
type Resolver struct {
	defaultVoice string
}

func NewResolver(defaultVoice string) *Resolver {
	if strings.TrimSpace(defaultVoice) == "" {
		defaultVoice = "Mia"
	}
	return &Resolver{defaultVoice: defaultVoice}
}

// Resolve nunca falla: una voz desconocida pasa normalizada y el error, si lo
// hay, lo dará la síntesis.
func (r *Resolver) Resolve(voiceID string) domain.ResolvedVoice {
	voiceID = strings.TrimSpace(voiceID)
	if strings.EqualFold(voiceID, DefaultVoiceToken) {
		return domain.ResolvedVoice{ID: r.defaultVoice}
	}
	return domain.ResolvedVoice{ID: capitalize(voiceID)}
}

func (r *Resolver) DefaultVoice() string {
	return r.defaultVoice
}

// Announce arma la frase final que se manda a sintetizar.
func Announce(sender, text string) string {
	return sender + " dice " + text
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
