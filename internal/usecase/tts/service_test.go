package tts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vozBot/internal/domain"
)

type fakeEngine struct {
	name  string
	audio []byte
	err   error
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(_ context.Context, _, _ string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

func TestSynthesizeUsesPrimaryEngine(t *testing.T) {
	t.Parallel()

	primary := &fakeEngine{name: "primary", audio: []byte("mp3-bytes")}
	fallback := &fakeEngine{name: "fallback", audio: []byte("otro")}
	svc := NewServiceWithEngines(primary, fallback)

	clip, err := svc.Synthesize(context.Background(), "hola", domain.ResolvedVoice{ID: "Mia"})
	require.NoError(t, err)
	require.Equal(t, []byte("mp3-bytes"), clip.Data)
	require.Equal(t, "mp3", clip.Format)
	require.Equal(t, 1, primary.calls)
	require.Zero(t, fallback.calls)
}

func TestSynthesizeFallsBackOnce(t *testing.T) {
	t.Parallel()

	primary := &fakeEngine{name: "primary", err: errors.New("boom")}
	fallback := &fakeEngine{name: "fallback", audio: []byte("plan-b")}
	svc := NewServiceWithEngines(primary, fallback)

	clip, err := svc.Synthesize(context.Background(), "hola", domain.ResolvedVoice{ID: "Mia"})
	require.NoError(t, err)
	require.Equal(t, []byte("plan-b"), clip.Data)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, fallback.calls)
}

func TestSynthesizeReportsTypedError(t *testing.T) {
	t.Parallel()

	primary := &fakeEngine{name: "primary", err: errors.New("caído")}
	fallback := &fakeEngine{name: "fallback", err: errors.New("también caído")}
	svc := NewServiceWithEngines(primary, fallback)

	_, err := svc.Synthesize(context.Background(), "hola", domain.ResolvedVoice{ID: "Pedro"})
	require.Error(t, err)

	var synthErr *domain.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	require.Equal(t, "Pedro", synthErr.Voice)
}

func TestSynthesizeStopsAfterContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &fakeEngine{name: "primary", err: ctx.Err()}
	fallback := &fakeEngine{name: "fallback", audio: []byte("nunca")}
	svc := NewServiceWithEngines(primary, fallback)

	_, err := svc.Synthesize(ctx, "hola", domain.ResolvedVoice{ID: "Mia"})
	require.Error(t, err)
	require.Zero(t, fallback.calls, "con el contexto cancelado no se intenta el respaldo")
}

func TestPollyEngineRequest(t *testing.T) {
	t.Parallel()

	var gotVoice, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVoice = r.URL.Query().Get("voice")
		gotText = r.URL.Query().Get("text")
		_, _ = w.Write([]byte("audio"))
	}))
	defer srv.Close()

	engine := &pollyEngine{baseURL: srv.URL, httpCli: srv.Client()}
	audio, err := engine.Fetch(context.Background(), "ana dice hola", "Mia")
	require.NoError(t, err)
	require.Equal(t, []byte("audio"), audio)
	require.Equal(t, "Mia", gotVoice)
	require.Equal(t, "ana dice hola", gotText)
}

func TestPollyEngineNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown voice", http.StatusBadRequest)
	}))
	defer srv.Close()

	engine := &pollyEngine{baseURL: srv.URL, httpCli: srv.Client()}
	_, err := engine.Fetch(context.Background(), "hola", "Nadie")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}

func TestPollyEngineTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	engine := &pollyEngine{
		baseURL: srv.URL,
		httpCli: &http.Client{Timeout: 50 * time.Millisecond},
	}
	_, err := engine.Fetch(context.Background(), "hola", "Mia")
	require.Error(t, err)
}
