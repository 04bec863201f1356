package toggle

import (
	"bufio"
	"context"
	"io"
	"strings"

	"vozBot/internal/logger"
)

// Listener lee órdenes del operador línea a línea: cualquier línea que
// contenga "on" enciende el TTS, cualquiera que contenga "off" lo apaga,
// el resto se ignora.
type Listener struct {
	state *State
}

func NewListener(state *State) *Listener {
	return &Listener{state: state}
}

// Report anuncia el estado actual una sola vez, antes de procesar chat.
func (l *Listener) Report() {
	if l.state.Enabled() {
		logger.Info("TTS inicial: habilitado. Escribe una línea con 'on' u 'off' para cambiarlo")
	} else {
		logger.Warn("TTS inicial: deshabilitado. Escribe una línea con 'on' u 'off' para cambiarlo")
	}
}

// Listen bloquea leyendo r hasta EOF o hasta que se cancele el contexto.
func (l *Listener) Listen(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		l.Apply(scanner.Text())
	}
	return scanner.Err()
}

// Apply interpreta una línea del operador.
func (l *Listener) Apply(line string) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch {
	case line == "":
	case strings.Contains(line, "on"):
		l.state.SetEnabled(true)
	case strings.Contains(line, "off"):
		l.state.SetEnabled(false)
	}
}
