// Package twitchadapter fuente de chat alternativa sobre el IRC de Twitch.
package twitchadapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/adeithe/go-twitch/irc"

	"vozBot/internal/domain"
	"vozBot/internal/logger"
)

// ErrSourceClosed indica que la conexión IRC se cayó por su cuenta. Quien
// llama decide si reconectar o apagar; aquí no se reintenta nada.
var ErrSourceClosed = errors.New("twitch: conexión IRC perdida")

type Config struct {
	Username   string
	OAuthToken string
	Channels   []string
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type Adapter struct {
	cfg     Config
	handler MessageHandler

	mu   sync.RWMutex
	conn *irc.Conn

	disconnected chan struct{}
	discOnce     sync.Once
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{
		cfg:          cfg,
		disconnected: make(chan struct{}),
	}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

func (a *Adapter) Start(ctx context.Context) error {
	if len(a.cfg.Channels) == 0 {
		return errors.New("twitch: no hay canales configurados")
	}
	if a.cfg.Username == "" || a.cfg.OAuthToken == "" {
		return errors.New("twitch: username u oauth token vacíos")
	}

	// Una sola conexión simple, sin sharding.
	conn := &irc.Conn{}

	if err := conn.SetLogin(a.cfg.Username, a.cfg.OAuthToken); err != nil {
		return fmt.Errorf("twitch: SetLogin: %w", err)
	}

	conn.OnDisconnect(a.signalDisconnect)

	conn.OnMessage(func(cm irc.ChatMessage) {
		a.mu.RLock()
		handler := a.handler
		a.mu.RUnlock()
		if handler == nil {
			return
		}

		if err := handler(ctx, mapChatMessageToDomain(cm)); err != nil {
			logger.Error("twitch: error en handler", err)
		}
	})

	if err := conn.Connect(); err != nil {
		return fmt.Errorf("twitch: Connect: %w", err)
	}

	if err := conn.Join(a.cfg.Channels...); err != nil {
		return fmt.Errorf("twitch: Join: %w", err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	logger.Infof("twitch: conectado como %s a canales %v", a.cfg.Username, a.cfg.Channels)

	err := a.wait(ctx)

	a.mu.Lock()
	if a.conn != nil {
		a.conn.Close()
	}
	a.mu.Unlock()

	return err
}

// wait bloquea hasta que el operador cancele o el IRC se desconecte; la
// caída de la fuente sube como error, igual que en el adapter de Kick.
func (a *Adapter) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.disconnected:
		return ErrSourceClosed
	}
}

func (a *Adapter) signalDisconnect() {
	a.discOnce.Do(func() {
		close(a.disconnected)
	})
}

func mapChatMessageToDomain(cm irc.ChatMessage) domain.Message {
	return domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: cm.Channel,
		UserID:    strconv.FormatInt(cm.Sender.ID, 10),
		Username:  cm.Sender.DisplayName,
		Text:      cm.Text,
	}
}
