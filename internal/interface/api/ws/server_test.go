package ws

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vozBot/internal/usecase/toggle"
)

func TestApplyControlTogglesState(t *testing.T) {
	t.Parallel()

	state := toggle.NewState(true)
	s := NewServer(Config{Toggle: state})

	s.applyControl([]byte(`{"enabled": false}`))
	require.False(t, state.Enabled())

	s.applyControl([]byte(`{"enabled": true}`))
	require.True(t, state.Enabled())
}

func TestApplyControlIgnoresMalformedFrames(t *testing.T) {
	t.Parallel()

	state := toggle.NewState(true)
	s := NewServer(Config{Toggle: state})

	for _, data := range []string{
		"no es json",
		"{}",
		`{"enabled": "si"}`,
		`{"otro": true}`,
	} {
		s.applyControl([]byte(data))
		require.True(t, state.Enabled(), "frame %q no debería tocar el estado", data)
	}
}

func TestApplyControlWithoutToggle(t *testing.T) {
	t.Parallel()

	s := NewServer(Config{})
	// No debe explotar sin toggle configurado.
	s.applyControl([]byte(`{"enabled": false}`))
}
