// Package session keeps the session token and the signed-in user summary in
// the local slot store.
//
// Storage is best effort: a failing read or write is logged and reported to
// the caller as "no value", so a broken store behaves like a signed-out
// client instead of crashing the REPL.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/client/repositories/slots"
	"github.com/medml/medcli/internal/common"
	"github.com/medml/medcli/internal/dbx"
	"github.com/medml/medcli/internal/logging"
)

// Store reads and writes the token and user slots.
type Store struct {
	db     *sql.DB
	repo   slots.Repository
	logger logging.Logger
}

// NewStore returns a Store bound to db, which must already be migrated.
func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, repo: slots.NewSQLiteRepository(db), logger: logger}
}

// Token returns the session token, or "" when absent or unreadable.
// It satisfies api.TokenSource.
func (s *Store) Token(ctx context.Context) string {
	v, err := s.repo.Get(ctx, common.SlotToken)
	if err != nil {
		s.logger.Warn(ctx, "token read failed", "error", err)
		return ""
	}
	return string(v)
}

// HasToken reports whether a session token is present.
func (s *Store) HasToken(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SetToken stores token; an empty token clears the slot.
func (s *Store) SetToken(ctx context.Context, token string) {
	if token == "" {
		s.ClearToken(ctx)
		return
	}
	if err := s.repo.Set(ctx, common.SlotToken, []byte(token)); err != nil {
		s.logger.Warn(ctx, "token write failed", "error", err)
	}
}

func (s *Store) ClearToken(ctx context.Context) {
	if err := s.repo.Delete(ctx, common.SlotToken); err != nil {
		s.logger.Warn(ctx, "token delete failed", "error", err)
	}
}

// StoredUser returns the stored user summary. A missing slot, a storage
// error or undecodable content all yield nil.
func (s *Store) StoredUser(ctx context.Context) *models.UserSummary {
	v, err := s.repo.Get(ctx, common.SlotUser)
	if err != nil {
		s.logger.Warn(ctx, "user read failed", "error", err)
		return nil
	}
	if v == nil {
		return nil
	}
	var u models.UserSummary
	if err := json.Unmarshal(v, &u); err != nil {
		s.logger.Warn(ctx, "user slot is not valid JSON", "error", err)
		return nil
	}
	return &u
}

// SetStoredUser serializes u into the user slot. A nil u removes the slot.
func (s *Store) SetStoredUser(ctx context.Context, u *models.UserSummary) {
	if u == nil {
		s.ClearStoredUser(ctx)
		return
	}
	b, err := json.Marshal(u)
	if err != nil {
		s.logger.Warn(ctx, "user encode failed", "error", err)
		return
	}
	if err := s.repo.Set(ctx, common.SlotUser, b); err != nil {
		s.logger.Warn(ctx, "user write failed", "error", err)
	}
}

func (s *Store) ClearStoredUser(ctx context.Context) {
	if err := s.repo.Delete(ctx, common.SlotUser); err != nil {
		s.logger.Warn(ctx, "user delete failed", "error", err)
	}
}

// SaveLogin writes the token and the user summary in one transaction, so a
// reader never sees a token without its user. Unlike the single-slot
// setters it returns the error, because a login that could not be persisted
// did not happen from the REPL's point of view.
func (s *Store) SaveLogin(ctx context.Context, token string, u *models.UserSummary) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := slots.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.SlotToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.SlotUser, b)
	})
}

// Clear removes both slots.
func (s *Store) Clear(ctx context.Context) {
	s.ClearToken(ctx)
	s.ClearStoredUser(ctx)
}
