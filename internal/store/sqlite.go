package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pulsebot/internal/core"
	"pulsebot/internal/logger"
)

// SQLite persists user state across restarts. Collections are stored as JSON
// columns keyed by user id; the per-user lists are small and always read and
// written whole, so row-per-entry tables would buy nothing.
type SQLite struct {
	db    *sql.DB
	path  string
	locks *lockTable
}

// NewSQLite opens (or creates) the database under dataDir.
func NewSQLite(dataDir string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pulsebot.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{
		db:    db,
		path:  dbPath,
		locks: newLockTable(),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *SQLite) initialize() error {
	profilesTable := `
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		profile TEXT,
		updated_at DATETIME
	);`

	shownTable := `
	CREATE TABLE IF NOT EXISTS shown_articles (
		user_id TEXT PRIMARY KEY,
		keys TEXT
	);`

	recentTable := `
	CREATE TABLE IF NOT EXISTS recent_articles (
		user_id TEXT PRIMARY KEY,
		articles TEXT
	);`

	contextsTable := `
	CREATE TABLE IF NOT EXISTS conversation_contexts (
		user_id TEXT PRIMARY KEY,
		context TEXT,
		updated_at DATETIME
	);`

	tables := []string{profilesTable, shownTable, recentTable, contextsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Profile(userID string) (core.UserProfile, bool) {
	var raw string
	err := s.db.QueryRow("SELECT profile FROM profiles WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return core.UserProfile{}, false
	}
	if err != nil {
		logger.Error("Failed to read profile", err, "user_id", userID)
		return core.UserProfile{}, false
	}

	var profile core.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		logger.Error("Failed to decode profile", err, "user_id", userID)
		return core.UserProfile{}, false
	}
	return profile, true
}

func (s *SQLite) SaveProfile(userID string, profile core.UserProfile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		logger.Error("Failed to encode profile", err, "user_id", userID)
		return
	}
	s.exec("Failed to save profile", userID,
		"INSERT OR REPLACE INTO profiles (user_id, profile, updated_at) VALUES (?, ?, ?)",
		userID, string(raw), time.Now().UTC())
}

func (s *SQLite) DeleteProfile(userID string) {
	s.exec("Failed to delete profile", userID,
		"DELETE FROM profiles WHERE user_id = ?", userID)
}

func (s *SQLite) ProfileUserIDs() []string {
	rows, err := s.db.Query("SELECT user_id FROM profiles ORDER BY user_id")
	if err != nil {
		logger.Error("Failed to list profile users", err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			logger.Error("Failed to scan profile user", err)
			continue
		}
		ids = append(ids, userID)
	}
	return ids
}

func (s *SQLite) RecentArticles(userID string) []core.Article {
	var raw string
	err := s.db.QueryRow("SELECT articles FROM recent_articles WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		logger.Error("Failed to read recent articles", err, "user_id", userID)
		return nil
	}

	var articles []core.Article
	if err := json.Unmarshal([]byte(raw), &articles); err != nil {
		logger.Error("Failed to decode recent articles", err, "user_id", userID)
		return nil
	}
	return articles
}

func (s *SQLite) SaveRecentArticles(userID string, articles []core.Article) {
	raw, err := json.Marshal(articles)
	if err != nil {
		logger.Error("Failed to encode recent articles", err, "user_id", userID)
		return
	}
	s.exec("Failed to save recent articles", userID,
		"INSERT OR REPLACE INTO recent_articles (user_id, articles) VALUES (?, ?)",
		userID, string(raw))
}

func (s *SQLite) Context(userID string) (core.ConversationContext, bool) {
	var raw string
	err := s.db.QueryRow("SELECT context FROM conversation_contexts WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return core.ConversationContext{}, false
	}
	if err != nil {
		logger.Error("Failed to read conversation context", err, "user_id", userID)
		return core.ConversationContext{}, false
	}

	var ctx core.ConversationContext
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
		logger.Error("Failed to decode conversation context", err, "user_id", userID)
		return core.ConversationContext{}, false
	}
	return ctx, true
}

func (s *SQLite) SaveContext(userID string, ctx core.ConversationContext) {
	raw, err := json.Marshal(ctx)
	if err != nil {
		logger.Error("Failed to encode conversation context", err, "user_id", userID)
		return
	}
	s.exec("Failed to save conversation context", userID,
		"INSERT OR REPLACE INTO conversation_contexts (user_id, context, updated_at) VALUES (?, ?, ?)",
		userID, string(raw), ctx.Timestamp.UTC())
}

func (s *SQLite) ClearContext(userID string) {
	s.exec("Failed to clear conversation context", userID,
		"DELETE FROM conversation_contexts WHERE user_id = ?", userID)
}

func (s *SQLite) PurgeStaleContexts(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	result, err := s.db.Exec("DELETE FROM conversation_contexts WHERE updated_at < ?", cutoff)
	if err != nil {
		logger.Error("Failed to purge stale contexts", err)
		return 0
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return int(purged)
}

func (s *SQLite) ShownKeys(userID string) []string {
	var raw string
	err := s.db.QueryRow("SELECT keys FROM shown_articles WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		logger.Error("Failed to read shown keys", err, "user_id", userID)
		return nil
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		logger.Error("Failed to decode shown keys", err, "user_id", userID)
		return nil
	}
	return keys
}

func (s *SQLite) AppendShown(userID string, keys []string) {
	s.ReplaceShown(userID, append(s.ShownKeys(userID), keys...))
}

func (s *SQLite) ReplaceShown(userID string, keys []string) {
	raw, err := json.Marshal(keys)
	if err != nil {
		logger.Error("Failed to encode shown keys", err, "user_id", userID)
		return
	}
	s.exec("Failed to save shown keys", userID,
		"INSERT OR REPLACE INTO shown_articles (user_id, keys) VALUES (?, ?)",
		userID, string(raw))
}

func (s *SQLite) ClearShown(userID string) {
	s.exec("Failed to clear shown keys", userID,
		"DELETE FROM shown_articles WHERE user_id = ?", userID)
}

func (s *SQLite) Acquire(userID string) func() {
	return s.locks.acquire(userID)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) exec(failureMsg, userID, query string, args ...any) {
	if _, err := s.db.Exec(query, args...); err != nil {
		logger.Error(failureMsg, err, "user_id", userID)
	}
}
