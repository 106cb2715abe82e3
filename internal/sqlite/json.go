package sqlite

import (
	"github.com/mesh-intelligence/planka/pkg/types"
)

// recordsJSONL is the data file kept in DataDir.
const recordsJSONL = "records.jsonl"

// dbFile is the SQLite file created in DataDir on Attach.
const dbFile = "planka.db"

// recordLine is one line of a JSONL data or seed file. The envelope mirrors
// the {"item": ...} responses of the Planka API with the resource type added.
type recordLine struct {
	Type string       `json:"type"`
	Item types.Record `json:"item"`
}
