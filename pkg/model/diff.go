package model

import (
	"fmt"
	"strings"

	"github.com/wI2L/jsondiff"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Diff returns the fields whose values differ between before and after,
// mapped to their value in after. Values are compared by their JSON form,
// so an int 5 and a float64 5 are equal. Only fields present in both
// snapshots are considered; added and removed fields are not reported.
func Diff(before, after types.Record) (types.Record, error) {
	changed, _, err := diffRecords(before, after)
	return changed, err
}

// diffRecords also returns the names of fields skipped because they exist
// in only one snapshot.
func diffRecords(before, after types.Record) (types.Record, []string, error) {
	patch, err := jsondiff.Compare(map[string]any(before), map[string]any(after))
	if err != nil {
		return nil, nil, fmt.Errorf("computing diff: %w", err)
	}
	changed := types.Record{}
	var skipped []string
	for _, op := range patch {
		field := topLevelField(op.Path)
		if field == "" {
			continue
		}
		_, inBefore := before[field]
		v, inAfter := after[field]
		if !inBefore || !inAfter {
			skipped = append(skipped, field)
			continue
		}
		changed[field] = v
	}
	return changed.Clone(), skipped, nil
}

// topLevelField returns the first reference token of a JSON pointer.
func topLevelField(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if i := strings.IndexByte(pointer, '/'); i >= 0 {
		pointer = pointer[:i]
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(pointer)
}
