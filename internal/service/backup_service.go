package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"kelime/internal/database"
)

// BackupVersion is written to every export
const BackupVersion = "1"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Dialect    string          `json:"dialect"`
	Profiles   []ProfileBackup `json:"profiles"`
	Words      []WordBackup    `json:"words"`
}

// ProfileBackup represents a profile record, password hash included
type ProfileBackup struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"password_hash" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Points       int       `json:"points" db:"points"`
	WordCount    int       `json:"word_count" db:"word_count"`
	AvatarURL    string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// WordBackup represents a word record
type WordBackup struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	English         string    `json:"english" db:"english"`
	Turkish         string    `json:"turkish" db:"turkish"`
	ExampleSentence string    `json:"example_sentence" db:"example_sentence"`
	ExampleTurkish  string    `json:"example_turkish" db:"example_turkish"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db     *database.DB
	logger *slog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger *slog.Logger) *BackupService {
	return &BackupService{db: db, logger: logger}
}

// Export reads every profile and word
func (s *BackupService) Export(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Dialect:    s.db.Dialect.DriverName(),
		Profiles:   []ProfileBackup{},
		Words:      []WordBackup{},
	}

	err := s.db.SelectContext(ctx, &backup.Profiles,
		"SELECT id, username, password_hash, role, points, word_count, avatar_url, created_at FROM profiles ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to export profiles: %w", err)
	}

	err = s.db.SelectContext(ctx, &backup.Words,
		"SELECT id, user_id, english, turkish, example_sentence, example_turkish, status, created_at FROM words ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to export words: %w", err)
	}

	s.logger.Info("Database exported",
		slog.Int("profiles", len(backup.Profiles)),
		slog.Int("words", len(backup.Words)))
	return backup, nil
}

// ExportToFile writes an indented JSON export to outputPath
func (s *BackupService) ExportToFile(ctx context.Context, outputPath string) error {
	backup, err := s.Export(ctx)
	if err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ImportFromReader restores a backup in one transaction. With clear set,
// existing words and profiles are deleted first.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	s.logger.Info("Importing backup",
		slog.Time("exported_at", backup.ExportedAt),
		slog.Int("profiles", len(backup.Profiles)),
		slog.Int("words", len(backup.Words)))

	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if clear {
			for _, table := range []string{"words", "profiles"} {
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
		}

		insertProfile := tx.Rebind(`INSERT INTO profiles (id, username, password_hash, role, points, word_count, avatar_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		for _, p := range backup.Profiles {
			if _, err := tx.ExecContext(ctx, insertProfile,
				p.ID, p.Username, p.PasswordHash, p.Role, p.Points, p.WordCount, p.AvatarURL, p.CreatedAt.UTC()); err != nil {
				return fmt.Errorf("failed to import profile %s: %w", p.Username, err)
			}
		}

		insertWord := tx.Rebind(`INSERT INTO words (id, user_id, english, turkish, example_sentence, example_turkish, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		for _, w := range backup.Words {
			if _, err := tx.ExecContext(ctx, insertWord,
				w.ID, w.UserID, w.English, w.Turkish, w.ExampleSentence, w.ExampleTurkish, w.Status, w.CreatedAt.UTC()); err != nil {
				return fmt.Errorf("failed to import word %s: %w", w.ID, err)
			}
		}
		return nil
	})
}

// ImportFromFile restores the backup stored at inputPath
func (s *BackupService) ImportFromFile(ctx context.Context, inputPath string, clear bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(ctx, file, clear)
}
