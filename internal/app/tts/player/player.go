// Package player reproduce clips MP3 en la salida de audio por defecto.
package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"

	"vozBot/internal/domain"
)

const pollInterval = 15 * time.Millisecond

// PCM de 16 bits en estéreo: 4 bytes por frame.
const bytesPerFrame = 4

// Oto implementa domain.Player sobre oto. El mutex garantiza que nunca
// suenan dos clips a la vez: la segunda llamada espera a que acabe la
// primera. oto no soporta crear más de un contexto por proceso, así que se
// abre uno solo con la frecuencia del primer clip y los clips que lleguen
// con otra frecuencia se remuestrean a la suya.
type Oto struct {
	mu     sync.Mutex
	otoCtx *oto.Context
	rate   int
}

func New() *Oto {
	return &Oto{}
}

func (p *Oto) Play(ctx context.Context, clip domain.AudioClip) error {
	if len(clip.Data) == 0 {
		return &domain.PlaybackError{Err: errors.New("clip vacío")}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	decoder, err := mp3.NewDecoder(bytes.NewReader(clip.Data))
	if err != nil {
		return &domain.PlaybackError{Err: fmt.Errorf("mp3 decoder: %w", err)}
	}

	// Un anuncio dura segundos; decodificarlo entero simplifica el
	// remuestreo y da la duración exacta para la cota de espera.
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return &domain.PlaybackError{Err: fmt.Errorf("mp3 decode: %w", err)}
	}

	otoCtx, err := p.context(decoder.SampleRate())
	if err != nil {
		return &domain.PlaybackError{Err: fmt.Errorf("oto context: %w", err)}
	}

	if decoder.SampleRate() != p.rate {
		pcm = resamplePCM(pcm, decoder.SampleRate(), p.rate)
	}

	player := otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	defer player.Close()

	// Cota dura: duración del clip más un margen. Si el dispositivo se
	// cuelga no puede retener la cola para siempre.
	duration := pcmDuration(len(pcm), p.rate)
	deadline := time.NewTimer(duration + 5*time.Second)
	defer deadline.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if !player.IsPlaying() {
			break
		}
		select {
		case <-ctx.Done():
			return &domain.PlaybackError{Err: ctx.Err()}
		case <-deadline.C:
			return &domain.PlaybackError{Err: errors.New("el dispositivo no terminó a tiempo")}
		case <-ticker.C:
		}
	}

	return nil
}

// context devuelve el contexto único de oto, creándolo en el primer uso
// con la frecuencia pedida. Se llama con p.mu tomado.
func (p *Oto) context(sampleRate int) (*oto.Context, error) {
	if p.otoCtx != nil {
		return p.otoCtx, nil
	}

	otoCtx, readyChan, err := oto.NewContext(sampleRate, 2, 2)
	if err != nil {
		return nil, err
	}
	<-readyChan

	p.otoCtx = otoCtx
	p.rate = sampleRate
	return otoCtx, nil
}

// resamplePCM reescala PCM int16 estéreo de from a to Hz por interpolación
// lineal. Suficiente para voz sintetizada.
func resamplePCM(pcm []byte, from, to int) []byte {
	if from <= 0 || to <= 0 || from == to {
		return pcm
	}
	inFrames := len(pcm) / bytesPerFrame
	if inFrames == 0 {
		return nil
	}

	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]byte, outFrames*bytesPerFrame)

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * float64(from) / float64(to)
		j := int(pos)
		frac := pos - float64(j)
		k := j + 1
		if k >= inFrames {
			k = inFrames - 1
		}

		for ch := 0; ch < 2; ch++ {
			a := int16(binary.LittleEndian.Uint16(pcm[j*bytesPerFrame+ch*2:]))
			b := int16(binary.LittleEndian.Uint16(pcm[k*bytesPerFrame+ch*2:]))
			v := float64(a) + (float64(b)-float64(a))*frac
			binary.LittleEndian.PutUint16(out[i*bytesPerFrame+ch*2:], uint16(int16(v)))
		}
	}

	return out
}

func pcmDuration(n, rate int) time.Duration {
	bytesPerSecond := rate * bytesPerFrame
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bytesPerSecond)
}

var _ domain.Player = (*Oto)(nil)
