package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"vozBot/internal/app/events"
	"vozBot/internal/app/tts/player"
	ttsrunner "vozBot/internal/app/tts/runner"
	"vozBot/internal/domain"
	"vozBot/internal/infrastructure/config"
	sqlitestorage "vozBot/internal/infrastructure/persistence/sqlite"
	kickadapter "vozBot/internal/interface/adapters/kick"
	twitchadapter "vozBot/internal/interface/adapters/twitch"
	ws "vozBot/internal/interface/api/ws"
	"vozBot/internal/logger"
	"vozBot/internal/usecase/handle_message"
	"vozBot/internal/usecase/speech"
	"vozBot/internal/usecase/toggle"
	ttsusecase "vozBot/internal/usecase/tts"
)

type chatAdapter interface {
	SetHandler(kickadapter.MessageHandler)
	Start(ctx context.Context) error
}

// twitchSource adapta la firma del handler de Twitch a la común.
type twitchSource struct {
	*twitchadapter.Adapter
}

func (t twitchSource) SetHandler(h kickadapter.MessageHandler) {
	t.Adapter.SetHandler(twitchadapter.MessageHandler(h))
}

func main() {
	setFlag := flag.String("set", "", "estado inicial del TTS: on u off (vacío usa el guardado)")
	logLevel := flag.String("log-level", "info", "nivel de log: debug, info, warn, error")
	flag.Parse()

	logger.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("no pude cargar la configuración", err)
		os.Exit(1)
	}

	// ---------- 1) Preferencias persistidas ----------

	startEnabled := cfg.StartEnabled
	defaultVoice := cfg.DefaultVoice

	store, err := sqlitestorage.NewSettingsStore(cfg.DatabasePath)
	if err != nil {
		logger.Error("sqlite no disponible, las preferencias no se guardarán", err)
		store = nil
	} else {
		defer store.Close()
		if stored, found, err := store.GetTTSEnabled(ctx); err == nil && found {
			startEnabled = stored
		}
		if voice, err := store.GetTTSVoice(ctx); err == nil && voice != "" {
			defaultVoice = voice
		}
	}

	switch *setFlag {
	case "on":
		startEnabled = true
	case "off":
		startEnabled = false
	case "":
	default:
		logger.Warnf("-set %q no es on ni off, lo ignoro", *setFlag)
	}

	// ---------- 2) Toggle y listener del operador ----------

	state := toggle.NewState(startEnabled)
	if store != nil {
		state.AttachRepository(store)
	}

	listener := toggle.NewListener(state)
	listener.Report()

	go func() {
		if err := listener.Listen(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("listener de la consola terminó", err)
		}
	}()

	// ---------- 3) Pipeline: síntesis, reproducción, cola ----------

	bus := events.NewBus()
	defer bus.Close()

	synth := ttsusecase.NewService(ttsusecase.Config{
		FallbackLang: cfg.FallbackLang,
		Timeout:      cfg.SynthTimeout,
	})

	runner := ttsrunner.New(ttsrunner.Config{
		Synthesizer: synth,
		Player:      player.New(),
		Bus:         bus,
		Enabled:     state.Enabled,
		MaxAge:      cfg.QueueMaxAge,
		PlaybackGap: cfg.PlaybackDelay,
	})
	runner.Start(ctx)
	defer runner.Close()

	uc := handle_message.NewInteractor(state, speech.NewResolver(defaultVoice), runner, bus)

	// ---------- 4) Estado por WebSocket ----------

	wsServer := ws.NewServer(ws.Config{
		Addr:   cfg.WSAddr,
		Bus:    bus,
		Toggle: state,
	})
	go func() {
		if err := wsServer.Start(ctx); err != nil {
			logger.Error("ws server terminó", err)
		}
	}()

	// ---------- 5) Fuente de chat ----------

	var source chatAdapter
	switch cfg.Platform {
	case string(domain.PlatformTwitch):
		source = twitchSource{twitchadapter.NewAdapter(twitchadapter.Config{
			Username:   cfg.TwitchUsername,
			OAuthToken: cfg.TwitchToken,
			Channels:   cfg.TwitchChannels,
		})}
	default:
		source = kickadapter.NewAdapter(kickadapter.Config{
			ChatroomID: cfg.KickChatroomID,
		})
	}

	source.SetHandler(uc.Handle)

	logger.Infof("Iniciando bot (%s)...", cfg.Platform)

	sourceErr := make(chan error, 1)
	go func() {
		sourceErr <- source.Start(ctx)
	}()

	// La caída de la fuente es fatal: se informa y se apaga, sin reconexión
	// silenciosa aquí dentro.
	select {
	case <-ctx.Done():
	case err := <-sourceErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("la fuente de chat se cayó", err)
			stop()
			runner.Close()
			os.Exit(1)
		}
	}

	logger.Info("Bot apagado.")
}
