package events

import (
	"time"

	"vozBot/internal/domain"
)

// ChatMessageDTO es el payload serializable de un mensaje de chat.
type ChatMessageDTO struct {
	Platform   string `json:"platform"`
	ChannelID  string `json:"channel_id"`
	Username   string `json:"username"`
	Text       string `json:"text"`
	TTSEnabled bool   `json:"tts_enabled"`
	Timestamp  string `json:"timestamp"`
}

func NewChatMessageDTO(msg domain.Message, ttsEnabled bool) ChatMessageDTO {
	return ChatMessageDTO{
		Platform:   string(msg.Platform),
		ChannelID:  msg.ChannelID,
		Username:   msg.Username,
		Text:       msg.Text,
		TTSEnabled: ttsEnabled,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type TTSStatusDTO struct {
	State       string `json:"state"`
	Enabled     bool   `json:"enabled"`
	QueueLength int    `json:"queue_length"`
	CurrentID   string `json:"current_id,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

func NewTTSStatusDTO(state string, enabled bool, queueLength int, currentID, lastError string) TTSStatusDTO {
	return TTSStatusDTO{
		State:       state,
		Enabled:     enabled,
		QueueLength: queueLength,
		CurrentID:   currentID,
		LastError:   lastError,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type TTSSpokenDTO struct {
	ID          string `json:"id"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
	Text        string `json:"text,omitempty"`
	Voice       string `json:"voice,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
	FinishedAt  string `json:"finished_at"`
}
