// Package ws expone un endpoint WebSocket con el estado del pipeline: cada
// evento del bus sale como JSON y un frame {"enabled":bool} mueve el toggle.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vozBot/internal/app/events"
	"vozBot/internal/logger"
	"vozBot/internal/usecase/toggle"
)

type Config struct {
	Addr   string
	Bus    *events.Bus
	Toggle *toggle.State
}

type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	httpSrv *http.Server
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// envelope es el formato de salida: de qué tema viene y el payload tal cual.
type envelope struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// controlFrame es lo único que se acepta de entrada.
type controlFrame struct {
	Enabled *bool `json:"enabled"`
}

func NewServer(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Start levanta el HTTP server y se bloquea hasta que el contexto se cancela.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/status", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: mux,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	if s.cfg.Bus != nil {
		go s.forward(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ws: shutdown error", err)
		}
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// forward reenvía los temas del bus a todos los clientes conectados.
func (s *Server) forward(ctx context.Context) {
	topics := []string{events.TopicChatMessage, events.TopicTTSStatus, events.TopicTTSSpoken, events.TopicAppError}

	for _, topic := range topics {
		ch, unsubscribe := s.cfg.Bus.Subscribe(topic)
		defer unsubscribe()

		go func(topic string, ch <-chan any) {
			for {
				select {
				case payload, ok := <-ch:
					if !ok {
						return
					}
					s.broadcast(envelope{Topic: topic, Payload: payload})
				case <-ctx.Done():
					return
				}
			}
		}(topic, ch)
	}

	<-ctx.Done()
}

func (s *Server) broadcast(v any) {
	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.writeJSON(v); err != nil {
			logger.Debugf("ws: write error: %v", err)
		}
	}
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade error", err)
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	logger.Infof("ws: nueva conexión desde %s (%d clientes activos)", r.RemoteAddr, clientCount)

	go s.handleClient(ctx, client)
}

func (s *Server) handleClient(ctx context.Context, client *wsClient) {
	defer func() {
		client.conn.Close()

		s.mu.Lock()
		delete(s.clients, client)
		clientCount := len(s.clients)
		s.mu.Unlock()

		logger.Infof("ws: conexión cerrada (%d clientes activos)", clientCount)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgType, data, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				logger.Debugf("ws: read error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		s.applyControl(data)
	}
}

func (s *Server) applyControl(data []byte) {
	if s.cfg.Toggle == nil {
		return
	}

	frame := controlFrame{}
	if err := json.Unmarshal(data, &frame); err != nil || frame.Enabled == nil {
		logger.Debugf("ws: frame de control ignorado: %s", data)
		return
	}

	s.cfg.Toggle.SetEnabled(*frame.Enabled)
}
