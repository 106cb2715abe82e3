package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/planka/pkg/types"
)

const upsertRecord = `INSERT INTO records (resource_type, id, position, data) VALUES (?, ?, ?, ?)
ON CONFLICT (resource_type, id) DO UPDATE SET position = excluded.position, data = excluded.data`

// loadFileLocked reads a JSONL file and inserts its records in one
// transaction: either every valid line loads or none does. Malformed lines
// and unknown resource types are skipped. The caller must hold b.mu.
func (b *Backend) loadFileLocked(path string) (int, error) {
	raw, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	lines := decodeLines(raw, types.IsResourceType)
	if skipped := len(raw) - len(lines); skipped > 0 {
		b.logger.Warn("skipped JSONL lines", "path", path, "count", skipped)
	}
	if len(lines) == 0 {
		return 0, nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := insertLines(context.Background(), tx, lines)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return n, nil
}

// Seed loads the records of an external JSONL file into the backend and
// persists the result. Lines are {"type": "card", "item": {...}}; items
// without an id get a generated one. Returns the number of records loaded.
func (b *Backend) Seed(ctx context.Context, path string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrDetached
	}
	raw, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	lines := decodeLines(raw, types.IsResourceType)

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := insertLines(ctx, tx, lines)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed transaction: %w", err)
	}
	if err := b.persistLocked(ctx); err != nil {
		return n, err
	}
	b.logger.Info("seeded records", "path", path, "count", n)
	return n, nil
}

// insertLines upserts each line; later lines replace earlier ones with the
// same type and id.
func insertLines(ctx context.Context, tx *sql.Tx, lines []recordLine) (int, error) {
	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, line := range lines {
		id, position, data, err := prepareRecord(line.Item)
		if err != nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, line.Type, id, position, data); err != nil {
			return n, fmt.Errorf("inserting %s %s: %w", line.Type, id, err)
		}
		n++
	}
	return n, nil
}

// prepareRecord normalizes a record for storage: the id becomes a string
// (generated when missing) and position is lifted out for ordering.
func prepareRecord(rec types.Record) (string, any, string, error) {
	id, err := rec.ID()
	if err != nil {
		id = generateID()
	}
	rec[types.FieldID] = id

	var position any
	if p, ok := rec[types.FieldPosition]; ok && p != nil {
		if f, err := cast.ToFloat64E(p); err == nil {
			position = f
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", nil, "", fmt.Errorf("encoding record %s: %w", id, err)
	}
	return id, position, string(data), nil
}
