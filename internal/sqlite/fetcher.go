package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/planka/pkg/types"
)

const (
	selectRecord  = `SELECT data FROM records WHERE resource_type = ? AND id = ?`
	selectByType  = `SELECT data FROM records WHERE resource_type = ? ORDER BY position IS NULL, position, rowid`
	selectRelated = `SELECT data FROM records
WHERE resource_type = ? AND CAST(json_extract(data, '$.' || ?) AS TEXT) = ?
ORDER BY position IS NULL, position, rowid`
	selectAll    = `SELECT resource_type, data FROM records ORDER BY resource_type, position IS NULL, position, rowid`
	updateRecord = `UPDATE records SET position = ?, data = ? WHERE resource_type = ? AND id = ?`
)

// Fetch returns the stored record of one resource.
func (b *Backend) Fetch(ctx context.Context, resourceType, id string) (types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, opErr("fetch", resourceType, id, "", types.ErrDetached)
	}
	rec, err := queryOne(ctx, b.db, resourceType, id)
	if err != nil {
		return nil, opErr("fetch", resourceType, id, "", err)
	}
	return rec, nil
}

// FetchRelated returns the children of a resource, matched by the foreign
// key of the relation, ordered by position. A missing parent is
// ErrNotFound.
func (b *Backend) FetchRelated(ctx context.Context, resourceType, id, relation string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, opErr("relation", resourceType, id, relation, types.ErrDetached)
	}
	rel, err := types.LookupRelation(resourceType, relation)
	if err != nil {
		return nil, opErr("relation", resourceType, id, relation, err)
	}
	if _, err := queryOne(ctx, b.db, resourceType, id); err != nil {
		return nil, opErr("relation", resourceType, id, relation, err)
	}
	recs, err := queryMany(ctx, b.db, selectRelated, rel.Target, rel.ForeignKey, id)
	if err != nil {
		return nil, opErr("relation", resourceType, id, relation, err)
	}
	return recs, nil
}

// FetchAll returns every stored resource of a type, ordered by position.
func (b *Backend) FetchAll(ctx context.Context, resourceType string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, opErr("list", resourceType, "", "", types.ErrDetached)
	}
	recs, err := queryMany(ctx, b.db, selectByType, resourceType)
	if err != nil {
		return nil, opErr("list", resourceType, "", "", err)
	}
	return recs, nil
}

// Update merges changed into the stored record, stamps updatedAt and
// returns the stored result. The id field cannot be changed.
func (b *Backend) Update(ctx context.Context, resourceType, id string, changed types.Record) (types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, opErr("update", resourceType, id, "", types.ErrDetached)
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	defer tx.Rollback()

	rec, err := queryOne(ctx, tx, resourceType, id)
	if err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	for k, v := range changed.Clone() {
		if k == types.FieldID {
			continue
		}
		rec[k] = v
	}
	rec[types.FieldUpdatedAt] = b.now().UTC().Format(time.RFC3339Nano)

	_, position, data, err := prepareRecord(rec)
	if err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	if _, err := tx.ExecContext(ctx, updateRecord, position, data, resourceType, id); err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	if err := b.persistLocked(ctx); err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	b.logger.Debug("updated record", "type", resourceType, "id", id, "fields", changed.Fields())
	return rec, nil
}

// Insert stores rec as a resource of the given type, replacing any record
// with the same id. A missing id is generated and createdAt is stamped when
// absent. Returns the stored record.
func (b *Backend) Insert(ctx context.Context, resourceType string, rec types.Record) (types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, opErr("insert", resourceType, "", "", types.ErrDetached)
	}
	if !types.IsResourceType(resourceType) {
		return nil, opErr("insert", resourceType, "", "", types.ErrUnknownResource)
	}
	rec = rec.Clone()
	if rec == nil {
		rec = types.Record{}
	}
	if _, ok := rec[types.FieldCreatedAt]; !ok {
		rec[types.FieldCreatedAt] = b.now().UTC().Format(time.RFC3339Nano)
	}
	id, position, data, err := prepareRecord(rec)
	if err != nil {
		return nil, opErr("insert", resourceType, "", "", err)
	}
	if _, err := b.db.ExecContext(ctx, upsertRecord, resourceType, id, position, data); err != nil {
		return nil, opErr("insert", resourceType, id, "", err)
	}
	if err := b.persistLocked(ctx); err != nil {
		return nil, opErr("insert", resourceType, id, "", err)
	}
	return rec, nil
}

// Export writes every stored record to path as JSONL.
func (b *Backend) Export(ctx context.Context, path string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrDetached
	}
	return b.exportLocked(ctx, path)
}

// persistLocked rewrites the data file from the database.
func (b *Backend) persistLocked(ctx context.Context) error {
	_, err := b.exportLocked(ctx, filepath.Join(b.config.DataDir, recordsJSONL))
	return err
}

func (b *Backend) exportLocked(ctx context.Context, path string) (int, error) {
	rows, err := b.db.QueryContext(ctx, selectAll)
	if err != nil {
		return 0, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var lines []json.RawMessage
	for rows.Next() {
		var resourceType, data string
		if err := rows.Scan(&resourceType, &data); err != nil {
			return 0, fmt.Errorf("scanning record: %w", err)
		}
		line, err := json.Marshal(struct {
			Type string          `json:"type"`
			Item json.RawMessage `json:"item"`
		}{Type: resourceType, Item: json.RawMessage(data)})
		if err != nil {
			return 0, fmt.Errorf("encoding record: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating records: %w", err)
	}
	if err := writeJSONL(path, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryOne(ctx context.Context, q querier, resourceType, id string) (types.Record, error) {
	var data string
	err := q.QueryRowContext(ctx, selectRecord, resourceType, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(data)
}

func queryMany(ctx context.Context, q querier, query string, args ...any) ([]types.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []types.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func decodeRecord(data string) (types.Record, error) {
	var rec types.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidRecord, err)
	}
	return rec, nil
}

// opErr wraps a failure in a ResourceError. Database failures are reported
// as transport errors.
func opErr(op, resourceType, id, relation string, err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrUnknownResource),
		errors.Is(err, types.ErrUnknownRelation),
		errors.Is(err, types.ErrInvalidRecord):
	default:
		err = fmt.Errorf("%w: %w", types.ErrTransport, err)
	}
	return &types.ResourceError{Op: op, Type: resourceType, ID: id, Relation: relation, Err: err}
}
