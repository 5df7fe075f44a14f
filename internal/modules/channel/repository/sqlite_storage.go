package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"

	"github.com/dkrasnov/auto-caption-bot/internal/modules/channel/domain"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
)

// SQLiteStorage implements Repository on a single sqlite database. Banned
// words are stored comma-joined; the words menu strips commas from entries on
// input, so the join is unambiguous.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (creating if needed) the channels database at dbPath.
func NewSQLiteStorage(dbPath string) (Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, oops.With("db_path", dbPath, "context", "could not open database").Wrap(err)
	}
	if err = db.Ping(); err != nil {
		return nil, oops.With("db_path", dbPath, "context", "could not connect to database").Wrap(err)
	}

	s := &SQLiteStorage{db: db}
	if err = s.initSchema(); err != nil {
		return nil, oops.With("db_path", dbPath, "context", "could not initialize database schema").Wrap(err)
	}
	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS channels (
		id INTEGER PRIMARY KEY,
		owner_user_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		caption_template TEXT NOT NULL DEFAULT '',
		link_remover_enabled INTEGER NOT NULL DEFAULT 0,
		banned_words TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_channels_owner ON channels(owner_user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Save(config *domain.Config) error {
	_, err := s.db.Exec(`
		INSERT INTO channels (id, owner_user_id, title, caption_template, link_remover_enabled, banned_words, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_user_id = excluded.owner_user_id,
			title = excluded.title,
			caption_template = excluded.caption_template,
			link_remover_enabled = excluded.link_remover_enabled,
			banned_words = excluded.banned_words`,
		config.ID, config.OwnerUserID, config.Title, config.CaptionTemplate,
		boolToInt(config.LinkRemoverEnabled), strings.Join(config.BannedWords, ","), config.AddedAt)
	if err != nil {
		return oops.With("channel_id", config.ID, "context", "failed to save channel config").Wrap(err)
	}
	return nil
}

func (s *SQLiteStorage) Get(channelID int64) (*domain.Config, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_user_id, title, caption_template, link_remover_enabled, banned_words, added_at
		FROM channels WHERE id = ?`, channelID)

	var config domain.Config
	var linkRemover int
	var bannedWords string
	var addedAt time.Time
	err := row.Scan(&config.ID, &config.OwnerUserID, &config.Title, &config.CaptionTemplate,
		&linkRemover, &bannedWords, &addedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrChannelNotFound
		}
		return nil, oops.With("channel_id", channelID, "context", "failed to read channel config").Wrap(err)
	}

	config.LinkRemoverEnabled = linkRemover != 0
	config.AddedAt = addedAt
	if bannedWords != "" {
		config.BannedWords = strings.Split(bannedWords, ",")
	}
	return &config, nil
}

func (s *SQLiteStorage) ListByOwner(userID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM channels WHERE owner_user_id = ? ORDER BY added_at`, userID)
	if err != nil {
		return nil, oops.With("user_id", userID, "context", "failed to list channels").Wrap(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, oops.With("user_id", userID, "context", "failed to scan channel id").Wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStorage) Delete(channelID int64) error {
	if _, err := s.db.Exec(`DELETE FROM channels WHERE id = ?`, channelID); err != nil {
		return oops.With("channel_id", channelID, "context", "failed to delete channel config").Wrap(err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
