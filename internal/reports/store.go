package reports

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"
)

// Store persists generated report files for tokenized sharing.
type Store struct {
	DB *sql.DB
}

var ErrTokenNotFound = errors.New("report token not found")

func newToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *Store) Create(ctx context.Context, userID, filePath, mediaType string, ttl time.Duration) (string, time.Time, error) {
	token, err := newToken(24)
	if err != nil {
		return "", time.Time{}, err
	}
	expires := time.Now().Add(ttl)

	const q = `
		INSERT INTO reports (user_id, token, file_path, media_type, expires_at)
		VALUES ($1::uuid, $2, $3, $4, $5);
	`
	if _, err := s.DB.ExecContext(ctx, q, userID, token, filePath, mediaType, expires); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *Store) GetByToken(ctx context.Context, token string) (string, string, time.Time, error) {
	const q = `SELECT file_path, media_type, expires_at FROM reports WHERE token = $1;`

	var path, mediaType string
	var exp time.Time
	if err := s.DB.QueryRowContext(ctx, q, token).Scan(&path, &mediaType, &exp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", time.Time{}, ErrTokenNotFound
		}
		return "", "", time.Time{}, err
	}
	return path, mediaType, exp, nil
}
