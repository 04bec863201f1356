package handle_message

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vozBot/internal/domain"
	"vozBot/internal/usecase/speech"
	"vozBot/internal/usecase/toggle"
	ttsusecase "vozBot/internal/usecase/tts"
)

type fakeQueue struct {
	requests []ttsusecase.Request
}

func (f *fakeQueue) Enqueue(_ context.Context, req ttsusecase.Request) (string, error) {
	f.requests = append(f.requests, req)
	return "id", nil
}

func newInteractor(enabled bool) (*Interactor, *fakeQueue, *toggle.State) {
	state := toggle.NewState(enabled)
	queue := &fakeQueue{}
	uc := NewInteractor(state, speech.NewResolver("Mia"), queue, nil)
	return uc, queue, state
}

func event(sender, text string) domain.Message {
	return domain.Message{
		Platform: domain.PlatformKick,
		Username: sender,
		Text:     text,
	}
}

func TestHandleIgnoresNonCommands(t *testing.T) {
	t.Parallel()

	uc, queue, _ := newInteractor(true)

	for _, text := range []string{"hola", "", "m hola", "!", "!m"} {
		require.NoError(t, uc.Handle(context.Background(), event("ana", text)))
	}
	require.Empty(t, queue.requests)
}

func TestHandleDiscardsWhenDisabled(t *testing.T) {
	t.Parallel()

	uc, queue, _ := newInteractor(false)

	require.NoError(t, uc.Handle(context.Background(), event("ana", "!m test")))
	require.Empty(t, queue.requests, "con el TTS apagado no se encola nada")
}

func TestHandleEnqueuesAnnouncedText(t *testing.T) {
	t.Parallel()

	uc, queue, _ := newInteractor(true)

	require.NoError(t, uc.Handle(context.Background(), event("ana", "!m Hola, ¿cómo estás?")))
	require.Len(t, queue.requests, 1)

	req := queue.requests[0]
	require.Equal(t, "ana dice Hola, ¿cómo estás?", req.Text)
	require.Equal(t, "Mia", req.Voice.ID)
	require.Equal(t, "ana", req.RequestedBy)
	require.False(t, req.CreatedAt.IsZero())
}

func TestHandleResolvesNamedVoice(t *testing.T) {
	t.Parallel()

	uc, queue, _ := newInteractor(true)

	require.NoError(t, uc.Handle(context.Background(), event("ana", "!pedro buenos días")))
	require.Len(t, queue.requests, 1)
	require.Equal(t, "Pedro", queue.requests[0].Voice.ID)
	require.Equal(t, "ana dice buenos días", queue.requests[0].Text)
}

// Recorrido completo del toggle del operador, como lo vería un usuario:
// "tts off" apaga, el comando siguiente se descarta, "turn tts on" vuelve a
// encender y el mismo comando se encola una sola vez.
func TestHandleToggleRoundTrip(t *testing.T) {
	t.Parallel()

	uc, queue, state := newInteractor(true)
	listener := toggle.NewListener(state)

	listener.Apply("tts off")
	require.NoError(t, uc.Handle(context.Background(), event("ana", "!m test")))
	require.Empty(t, queue.requests)

	listener.Apply("turn tts on")
	require.NoError(t, uc.Handle(context.Background(), event("ana", "!m test")))
	require.Len(t, queue.requests, 1)
	require.Equal(t, "ana dice test", queue.requests[0].Text)
}
