// Package sqlite provides durable chunk and session storage backed by
// SQLite (modernc.org/sqlite, no CGO).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/contexture-ai/contexture/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/contexture-ai/contexture/internal/core/domain"
	"github.com/contexture-ai/contexture/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// chunk and session store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.contexture/data/contexture.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".contexture", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "contexture.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunk stores a chunk. The vector is serialised as a little-endian
// float32 blob.
func (s *chunkStore) SaveChunk(ctx context.Context, chunk *domain.Chunk) error {
	ingestedAt := chunk.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chunks (id, file_name, page_number, text, vector, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			page_number = excluded.page_number,
			text = excluded.text,
			vector = excluded.vector,
			ingested_at = excluded.ingested_at
	`, chunk.ID, chunk.FileName, chunk.PageNumber, chunk.Text,
		float32SliceToBytes(chunk.Vector), ingestedAt)

	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *chunkStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, file_name, page_number, text, vector, ingested_at
		FROM chunks WHERE id = ?
	`, id)

	var chunk domain.Chunk
	var vectorBlob []byte
	var ingestedAt sql.NullTime
	if err := row.Scan(&chunk.ID, &chunk.FileName, &chunk.PageNumber,
		&chunk.Text, &vectorBlob, &ingestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Vector = bytesToFloat32Slice(vectorBlob)
	if ingestedAt.Valid {
		chunk.IngestedAt = ingestedAt.Time
	}
	return &chunk, nil
}

// ListChunks returns all chunks in insertion order. This is the full
// scan consumed by index rebuilds.
func (s *chunkStore) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, file_name, page_number, text, vector, ingested_at
		FROM chunks ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var vectorBlob []byte
		var ingestedAt sql.NullTime
		if err := rows.Scan(&chunk.ID, &chunk.FileName, &chunk.PageNumber,
			&chunk.Text, &vectorBlob, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Vector = bytesToFloat32Slice(vectorBlob)
		if ingestedAt.Valid {
			chunk.IngestedAt = ingestedAt.Time
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteChunksByFile removes all chunks for a source document and
// returns how many were removed.
func (s *chunkStore) DeleteChunksByFile(ctx context.Context, fileName string) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE file_name = ?", fileName)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	return int(affected), nil
}

// Count returns the number of stored chunks.
func (s *chunkStore) Count(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// CreateSession inserts an empty session for owner and returns its id.
func (s *sessionStore) CreateSession(ctx context.Context, owner string) (string, error) {
	if owner == "" {
		return "", domain.ErrInvalidInput
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, owner, name, created_at, updated_at)
		VALUES (?, ?, '', ?, ?)
	`, id, owner, now, now)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// AppendMessage appends one message inside a transaction: the session
// row is updated first, owner-qualified, and a zero row count means
// the session is absent or owned by someone else.
func (s *sessionStore) AppendMessage(ctx context.Context, sessionID, owner, role, content string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE sessions SET updated_at = ?
		WHERE session_id = ? AND owner = ?
	`, now, sessionID, owner)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO messages (session_id, role, content, timestamp)
		VALUES (?, ?, ?, ?)
	`, sessionID, role, content, now); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetHistory returns the ordered message log for (sessionID, owner).
func (s *sessionStore) GetHistory(ctx context.Context, sessionID, owner string) ([]domain.Message, error) {
	if err := s.requireSession(ctx, sessionID, owner); err != nil {
		return nil, err
	}

	// Ordered by insert id, not timestamp: ties within one turn must
	// keep user before assistant.
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT role, content, timestamp
		FROM messages WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

// GetSession returns the full session record.
func (s *sessionStore) GetSession(ctx context.Context, sessionID, owner string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT session_id, owner, name, created_at, updated_at
		FROM sessions WHERE session_id = ? AND owner = ?
	`, sessionID, owner)

	var sess domain.Session
	if err := row.Scan(&sess.ID, &sess.Owner, &sess.Name,
		&sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	messages, err := s.GetHistory(ctx, sessionID, owner)
	if err != nil {
		return nil, err
	}
	sess.Messages = messages
	return &sess, nil
}

// ListSessions returns the session ids belonging to owner.
func (s *sessionStore) ListSessions(ctx context.Context, owner string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT session_id FROM sessions WHERE owner = ?
		ORDER BY updated_at DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return ids, nil
}

// RenameSession sets the session display name.
func (s *sessionStore) RenameSession(ctx context.Context, sessionID, owner, name string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE sessions SET name = ?, updated_at = ?
		WHERE session_id = ? AND owner = ?
	`, name, time.Now().UTC(), sessionID, owner)
	if err != nil {
		return fmt.Errorf("renaming session: %w", err)
	}
	return requireAffected(res)
}

// DeleteSession removes the session; messages cascade.
func (s *sessionStore) DeleteSession(ctx context.Context, sessionID, owner string) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE session_id = ? AND owner = ?", sessionID, owner)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return requireAffected(res)
}

// requireSession verifies the owner-qualified session exists.
func (s *sessionStore) requireSession(ctx context.Context, sessionID, owner string) error {
	var one int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM sessions WHERE session_id = ? AND owner = ?", sessionID, owner)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("checking session: %w", err)
	}
	return nil
}

// requireAffected maps a zero-row write to domain.ErrNotFound.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
