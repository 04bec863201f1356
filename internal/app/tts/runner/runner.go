// Package runner serializa la síntesis y reproducción de los avisos de voz:
// cola FIFO sin límite, un único worker, un clip sonando como máximo.
package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vozBot/internal/app/events"
	"vozBot/internal/domain"
	"vozBot/internal/logger"
	ttsusecase "vozBot/internal/usecase/tts"
)

// ErrRunnerClosed se devuelve al encolar sobre un runner ya detenido.
var ErrRunnerClosed = errors.New("tts runner detenido")

type Config struct {
	Synthesizer domain.Synthesizer
	Player      domain.Player
	Bus         *events.Bus

	// Enabled se consulta antes de empezar cada elemento de la cola; lo que
	// ya está sonando termina aunque el toggle se apague a mitad.
	Enabled func() bool

	// MaxAge descarta elementos que llevan demasiado en cola antes de gastar
	// una llamada de síntesis en ellos. Cero lo desactiva.
	MaxAge time.Duration

	// PlaybackGap es la pausa mínima entre el final de un clip y el comienzo
	// del siguiente.
	PlaybackGap time.Duration
}

type Runner struct {
	cfg    Config
	queue  []*ttsusecase.Request
	mu     sync.Mutex
	cond   *sync.Cond
	wg     sync.WaitGroup
	closed bool

	current       *ttsusecase.Request
	cancelCurrent context.CancelFunc

	status   events.TTSStatusDTO
	lastPlay time.Time
}

func New(cfg Config) *Runner {
	r := &Runner{cfg: cfg}
	r.cond = sync.NewCond(&r.mu)
	r.status = events.NewTTSStatusDTO("idle", r.enabled(), 0, "", "")
	return r
}

func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		<-ctx.Done()
		r.mu.Lock()
		r.closed = true
		if r.cancelCurrent != nil {
			r.cancelCurrent()
		}
		r.mu.Unlock()
		r.cond.Broadcast()
	}()
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
	r.publish(events.TopicTTSStatus, r.Status())
}

func (r *Runner) run(ctx context.Context) {
	for {
		req, ok := r.next(ctx)
		if !ok {
			return
		}
		r.handleRequest(ctx, req)
	}
}

// next entrega el siguiente elemento en estricto orden de llegada. Los
// elementos caducados o encolados antes de apagar el toggle se descartan
// aquí, sin gastar síntesis.
func (r *Runner) next(ctx context.Context) (*ttsusecase.Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if r.closed {
			return nil, false
		}
		for len(r.queue) > 0 {
			req := r.queue[0]
			r.queue = r.queue[1:]

			if r.cfg.MaxAge > 0 && time.Since(req.CreatedAt) > r.cfg.MaxAge {
				logger.Debugf("tts runner: descartando %s por antigüedad (%.1fs)", req.ID, time.Since(req.CreatedAt).Seconds())
				continue
			}
			if !r.enabled() {
				logger.Debugf("tts runner: TTS apagado, descartando %s", req.ID)
				continue
			}

			r.updateStatusLocked("speaking", len(r.queue), req.ID, "")
			return req, true
		}

		r.updateStatusLocked("idle", 0, "", "")
		r.cond.Wait()
		if ctx.Err() != nil {
			return nil, false
		}
	}
}

func (r *Runner) handleRequest(ctx context.Context, req *ttsusecase.Request) {
	if req == nil || r.cfg.Synthesizer == nil || r.cfg.Player == nil {
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.setCurrent(req, cancel)
	defer r.clearCurrent()

	clip, err := r.cfg.Synthesizer.Synthesize(childCtx, req.Text, req.Voice)
	if err != nil {
		r.handleFailure(req, err)
		return
	}

	r.waitPlaybackGap(childCtx)

	if err := r.cfg.Player.Play(childCtx, clip); err != nil {
		if ctx.Err() != nil {
			r.handleFailure(req, context.Canceled)
			return
		}
		r.handleFailure(req, err)
		return
	}

	r.markPlayed()
	r.emitSpoken(req, true, nil)
	r.updateStatus("idle", r.queueLength(), "", "")
}

// waitPlaybackGap respeta la pausa mínima entre reproducciones seguidas.
func (r *Runner) waitPlaybackGap(ctx context.Context) {
	if r.cfg.PlaybackGap <= 0 {
		return
	}

	r.mu.Lock()
	last := r.lastPlay
	r.mu.Unlock()

	if last.IsZero() {
		return
	}
	remaining := r.cfg.PlaybackGap - time.Since(last)
	if remaining <= 0 {
		return
	}

	logger.Debugf("tts runner: esperando %.2fs antes de reproducir", remaining.Seconds())
	select {
	case <-ctx.Done():
	case <-time.After(remaining):
	}
}

func (r *Runner) markPlayed() {
	r.mu.Lock()
	r.lastPlay = time.Now()
	r.mu.Unlock()
}

// handleFailure deja registro y sigue: el fallo de un aviso nunca frena la cola.
func (r *Runner) handleFailure(req *ttsusecase.Request, err error) {
	if err != nil {
		logger.Errorf("tts runner: %v (usuario=%s, voz=%s, texto=%q)", err, req.RequestedBy, req.Voice.ID, req.Text)
		r.publish(events.TopicAppError, map[string]any{
			"source": "tts",
			"error":  err.Error(),
		})
	}
	r.updateStatus("error", r.queueLength(), req.ID, safeError(err))
	r.emitSpoken(req, false, err)
}

func (r *Runner) setCurrent(req *ttsusecase.Request, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = req
	r.cancelCurrent = cancel
}

func (r *Runner) clearCurrent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelCurrent != nil {
		r.cancelCurrent()
	}
	r.current = nil
	r.cancelCurrent = nil
}

func (r *Runner) queueLength() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// StopAll cancela lo que esté sonando y vacía la cola pendiente.
func (r *Runner) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelCurrent != nil {
		r.cancelCurrent()
	}
	r.queue = nil
	r.updateStatusLocked("stopped", 0, "", "")
	r.cond.Broadcast()
}

// Enqueue añade una petición al final de la cola y devuelve su ID. No
// bloquea aunque el worker esté a mitad de sintetizar o reproducir.
func (r *Runner) Enqueue(_ context.Context, req ttsusecase.Request) (string, error) {
	if strings.TrimSpace(req.ID) == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrRunnerClosed
	}

	r.queue = append(r.queue, &req)
	r.updateStatusLocked(r.status.State, len(r.queue), r.status.CurrentID, r.status.LastError)
	r.cond.Signal()
	return req.ID, nil
}

func (r *Runner) Status() events.TTSStatusDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) Close() error {
	r.mu.Lock()
	r.closed = true
	if r.cancelCurrent != nil {
		r.cancelCurrent()
	}
	r.queue = nil
	r.cond.Broadcast()
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

func (r *Runner) enabled() bool {
	if r.cfg.Enabled == nil {
		return true
	}
	return r.cfg.Enabled()
}

func (r *Runner) emitSpoken(req *ttsusecase.Request, ok bool, err error) {
	if req == nil {
		return
	}
	payload := events.TTSSpokenDTO{
		ID:          req.ID,
		OK:          ok,
		Text:        req.Text,
		Voice:       req.Voice.ID,
		RequestedBy: req.RequestedBy,
		FinishedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err != nil {
		payload.Error = err.Error()
	}
	r.publish(events.TopicTTSSpoken, payload)
}

func (r *Runner) updateStatus(state string, queueLength int, currentID, lastError string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateStatusLocked(state, queueLength, currentID, lastError)
}

func (r *Runner) updateStatusLocked(state string, queueLength int, currentID, lastError string) {
	if strings.TrimSpace(state) == "" {
		state = "idle"
	}
	r.status = events.NewTTSStatusDTO(state, r.enabled(), queueLength, currentID, lastError)
	r.publish(events.TopicTTSStatus, r.status)
}

func (r *Runner) publish(topic string, payload any) {
	if r.cfg.Bus != nil {
		r.cfg.Bus.Publish(topic, payload)
	}
}

func safeError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
