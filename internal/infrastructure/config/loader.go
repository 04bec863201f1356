package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vozBot/internal/logger"
)

type Config struct {
	Platform string

	KickChatroomID int

	TwitchUsername string
	TwitchToken    string
	TwitchChannels []string

	DefaultVoice  string
	FallbackLang  string
	StartEnabled  bool
	PlaybackDelay time.Duration
	QueueMaxAge   time.Duration
	SynthTimeout  time.Duration

	WSAddr       string
	DatabasePath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Platform:       envOr("CHAT_PLATFORM", "kick"),
		KickChatroomID: envInt("KICK_CHATROOM_ID", 34754537),

		TwitchUsername: os.Getenv("TWITCH_BOT_USERNAME"),
		TwitchToken:    os.Getenv("TWITCH_BOT_ACCESS_TOKEN"),
		TwitchChannels: envList("TWITCH_BOT_CHANNELS"),

		DefaultVoice:  envOr("TTS_DEFAULT_VOICE", "Mia"),
		FallbackLang:  envOr("TTS_FALLBACK_LANG", ""),
		StartEnabled:  envBool("TTS_START_ENABLED", true),
		PlaybackDelay: envDuration("TTS_PLAYBACK_DELAY", 2*time.Second),
		QueueMaxAge:   envDuration("TTS_QUEUE_MAX_AGE", 0),
		SynthTimeout:  envDuration("TTS_SYNTH_TIMEOUT", 15*time.Second),

		WSAddr:       envOr("CHAT_WS_ADDR", ":8080"),
		DatabasePath: envOr("DATABASE_PATH", "data/vozbot.db"),
	}

	if cfg.Platform == "twitch" && (cfg.TwitchUsername == "" || cfg.TwitchToken == "") {
		logger.Warn("Advertencia: faltan variables de Twitch (TWITCH_BOT_USERNAME / TWITCH_BOT_ACCESS_TOKEN)")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList separa por comas y descarta entradas vacías: sin la variable no
// hay canales, no un canal "".
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warnf("%s inválido (%q), usando %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warnf("%s inválido (%q), usando %s", key, v, fallback)
		return fallback
	}
	return d
}
