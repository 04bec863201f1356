package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vozBot/internal/domain"
)

// SettingsStore guarda las preferencias del bot (toggle inicial, voz por
// defecto) en una tabla clave/valor.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(dbPath string) (*SettingsStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SettingsStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT,
	updated_at TIMESTAMP NOT NULL
);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: migrate settings: %w", err)
	}

	return nil
}

func (s *SettingsStore) Close() error {
	return s.db.Close()
}

const ttsVoiceKey = "tts_voice"
const ttsEnabledKey = "tts_enabled"

func (s *SettingsStore) SetTTSVoice(ctx context.Context, voice string) error {
	return s.setSetting(ctx, ttsVoiceKey, voice)
}

func (s *SettingsStore) GetTTSVoice(ctx context.Context) (string, error) {
	voice, _, err := s.getSetting(ctx, ttsVoiceKey)
	return voice, err
}

func (s *SettingsStore) SetTTSEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.setSetting(ctx, ttsEnabledKey, value)
}

// GetTTSEnabled distingue "nunca guardado" (found=false) de un valor
// persistido: una base recién creada no debe pisar la config del entorno.
func (s *SettingsStore) GetTTSEnabled(ctx context.Context) (enabled, found bool, err error) {
	val, found, err := s.getSetting(ctx, ttsEnabledKey)
	if err != nil || !found {
		return false, found, err
	}
	return strings.ToLower(strings.TrimSpace(val)) != "false", true, nil
}

func (s *SettingsStore) setSetting(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("sqlite: empty setting key")
	}

	now := time.Now().UTC()
	const stmt = `
INSERT INTO settings (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	value=excluded.value,
	updated_at=excluded.updated_at;
`

	if _, err := s.db.ExecContext(ctx, stmt, key, value, now); err != nil {
		return fmt.Errorf("sqlite: set setting: %w", err)
	}

	return nil
}

func (s *SettingsStore) getSetting(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, fmt.Errorf("sqlite: empty setting key")
	}

	const query = `SELECT value FROM settings WHERE key = ? LIMIT 1;`
	row := s.db.QueryRowContext(ctx, query, key)

	var value sql.NullString
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlite: get setting: %w", err)
	}

	return value.String, true, nil
}

var _ domain.TTSSettingsRepository = (*SettingsStore)(nil)
