package types

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode copies a record into a typed view such as *Card. Field names follow
// the json tags; numbers and strings are converted weakly and ISO-8601
// timestamps become time.Time. Unknown fields are ignored.
func Decode(r Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
