// Package sqlite implements a local Fetcher for Planka resources backed by
// SQLite, with a JSONL file as the source of truth.
package sqlite

// Schema DDL. Every resource lives in one table keyed by (resource_type, id);
// data holds the full JSON record and position is lifted out for ordering.
const (
	createRecords = `CREATE TABLE records (
    resource_type TEXT NOT NULL,
    id TEXT NOT NULL,
    position REAL,
    data TEXT NOT NULL,
    PRIMARY KEY (resource_type, id)
);`

	createRecordsPositionIndex = `CREATE INDEX idx_records_type_position ON records(resource_type, position);`
)

// schemaStatements lists the DDL executed on Attach, in order.
var schemaStatements = []string{
	createRecords,
	createRecordsPositionIndex,
}
