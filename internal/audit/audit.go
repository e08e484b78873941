package audit

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	UserID    string
	Action    string
	EntityID  int64
	IP        string
	UserAgent string
	Metadata  []byte
}

type Logger struct {
	DB *pgxpool.Pool
}

func NewLogger(db *pgxpool.Pool) *Logger {
	return &Logger{DB: db}
}

// Record writes an audit entry for a transaction mutation. Failures are
// logged and swallowed; auditing never blocks the request.
func (l *Logger) Record(ctx context.Context, e Entry) {
	if l == nil || l.DB == nil {
		return
	}

	var metadata any
	if len(e.Metadata) > 0 {
		metadata = json.RawMessage(e.Metadata)
	}

	_, err := l.DB.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip, user_agent, metadata)
VALUES ($1::uuid, $2, 'transaction', $3, $4, $5, $6)
`, e.UserID, e.Action, strconv.FormatInt(e.EntityID, 10), e.IP, e.UserAgent, metadata)
	if err != nil {
		log.Printf("audit: %s transaction %d: %v", e.Action, e.EntityID, err)
	}
}
