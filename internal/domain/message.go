package domain

type Platform string

const (
	PlatformKick   Platform = "kick"
	PlatformTwitch Platform = "twitch"
)

// Message es un evento de chat normalizado, da igual de qué plataforma venga.
type Message struct {
	Platform  Platform
	ChannelID string
	UserID    string
	Username  string
	Text      string
}
