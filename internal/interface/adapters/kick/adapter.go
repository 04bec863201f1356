// Package kickadapter escucha el chat de un chatroom de Kick y empuja cada
// mensaje normalizado hacia el handler.
package kickadapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	kickchatwrapper "github.com/johanvandegriff/kick-chat-wrapper"

	"vozBot/internal/domain"
	"vozBot/internal/logger"
)

// ErrSourceClosed indica que la fuente de chat se cerró por su cuenta. Quien
// llama decide si reconectar o apagar; aquí no se reintenta nada.
var ErrSourceClosed = errors.New("kick: canal de mensajes cerrado")

type Config struct {
	// ID del chatroom (no es el userID del canal).
	// Se saca de https://kick.com/api/v2/channels/{slug}, campo "chatroom":{"id":...}
	ChatroomID int
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type Adapter struct {
	cfg     Config
	handler MessageHandler

	mu sync.RWMutex
	ws *kickchatwrapper.Client
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// Start bloquea hasta que se cancele el contexto o la fuente se caiga.
func (a *Adapter) Start(ctx context.Context) error {
	if a.cfg.ChatroomID == 0 {
		return errors.New("kick: ChatroomID no configurado")
	}

	wsClient, err := kickchatwrapper.NewClient()
	if err != nil {
		return fmt.Errorf("kick: error creando ws client: %w", err)
	}

	if err := wsClient.JoinChannelByID(a.cfg.ChatroomID); err != nil {
		return fmt.Errorf("kick: JoinChannelByID: %w", err)
	}

	msgChan := wsClient.ListenForMessages()

	a.mu.Lock()
	a.ws = wsClient
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		if a.ws != nil {
			a.ws.Close()
			a.ws = nil
		}
		a.mu.Unlock()
	}()

	logger.Infof("kick: conectado al chatroom %d", a.cfg.ChatroomID)

	for {
		select {
		case m, ok := <-msgChan:
			if !ok {
				return ErrSourceClosed
			}

			a.mu.RLock()
			handler := a.handler
			a.mu.RUnlock()
			if handler == nil {
				continue
			}

			if err := handler(ctx, mapChatMessageToDomain(m)); err != nil {
				logger.Error("kick: error en handler", err)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func mapChatMessageToDomain(m kickchatwrapper.ChatMessage) domain.Message {
	return domain.Message{
		Platform:  domain.PlatformKick,
		ChannelID: strconv.Itoa(m.ChatroomID),
		UserID:    strconv.Itoa(m.Sender.ID),
		Username:  m.Sender.Username,
		Text:      m.Content,
	}
}
