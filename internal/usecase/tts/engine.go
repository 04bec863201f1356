package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hegedustibor/htgo-tts/voices"
)

// Engine es un backend de síntesis concreto: texto + voz -> bytes MP3.
type Engine interface {
	Name() string
	Fetch(ctx context.Context, text, voice string) ([]byte, error)
}

// pollyEngine habla con el endpoint de speech de StreamElements, que expone
// las voces de Polly (Mia, Pedro, ...) y devuelve MP3.
type pollyEngine struct {
	baseURL string
	httpCli *http.Client
}

func (e *pollyEngine) Name() string { return "polly" }

func (e *pollyEngine) Fetch(ctx context.Context, text, voice string) ([]byte, error) {
	params := url.Values{}
	params.Set("voice", voice)
	params.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts: polly status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// translateEngine es el plan B: el TTS de Google Translate. No entiende de
// voces con nombre, solo de códigos de idioma, así que todas las voces suenan
// igual; mejor eso que silencio.
type translateEngine struct {
	lang    string
	httpCli *http.Client
}

func (e *translateEngine) Name() string { return "translate" }

func (e *translateEngine) Fetch(ctx context.Context, text, _ string) ([]byte, error) {
	lang := strings.TrimSpace(e.lang)
	if lang == "" {
		lang = voices.Spanish
	}

	// El endpoint corta alrededor de los 200 caracteres por petición.
	chunkSize := 200
	runes := []rune(text)
	var buf []byte

	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		audio, err := e.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		buf = append(buf, audio...)
	}

	return buf, nil
}

func (e *translateEngine) fetchChunk(ctx context.Context, text, lang string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("total", "1")
	params.Set("idx", "0")
	params.Set("textlen", fmt.Sprintf("%d", len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://translate.google.com/translate_tts?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := e.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts: translate status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
