package speech

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vozBot/internal/domain"
)

func TestParseRejectsNonCommands(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"hola a todos",
		"m hola",
		"¡m hola",
		"!",
		"!   ",
		"!m",
		"!m    ",
		"!pedro\t \t",
	}

	for _, raw := range cases {
		_, err := Parse(raw)
		require.ErrorIs(t, err, domain.ErrNotACommand, "raw=%q", raw)
	}
}

func TestParseSplitsVoiceAndText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw   string
		voice string
		text  string
	}{
		{"!m Hola, ¿cómo estás?", "m", "Hola, ¿cómo estás?"},
		{"!pedro buenos días", "pedro", "buenos días"},
		{"!M test", "M", "test"},
		{"!m   espacios extra   ", "m", "espacios extra"},
		{"!m\tcon tabulador", "m", "con tabulador"},
		{"! hola que tal", "hola", "que tal"},
	}

	for _, tc := range cases {
		req, err := Parse(tc.raw)
		require.NoError(t, err, "raw=%q", tc.raw)
		require.Equal(t, tc.voice, req.VoiceID, "raw=%q", tc.raw)
		require.Equal(t, tc.text, req.Text, "raw=%q", tc.raw)
	}
}

func TestResolveDefaultToken(t *testing.T) {
	t.Parallel()

	r := NewResolver("Mia")

	require.Equal(t, "Mia", r.Resolve("m").ID)
	require.Equal(t, "Mia", r.Resolve("M").ID)
	require.Equal(t, "Mia", r.Resolve(" m ").ID)
}

func TestResolveNormalizesCase(t *testing.T) {
	t.Parallel()

	r := NewResolver("Mia")

	require.Equal(t, "Pedro", r.Resolve("pedro").ID)
	require.Equal(t, "Pedro", r.Resolve("Pedro").ID)
	require.Equal(t, "Ñoño", r.Resolve("ñoño").ID)
}

func TestResolverEmptyDefaultFallsBack(t *testing.T) {
	t.Parallel()

	r := NewResolver("  ")
	require.Equal(t, "Mia", r.Resolve("m").ID)
}

func TestAnnounce(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ana dice hola", Announce("ana", "hola"))
	require.Equal(t, "bot dice Hola, ¿cómo estás?", Announce("bot", "Hola, ¿cómo estás?"))
}
