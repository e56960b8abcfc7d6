package conv

import (
	"encoding/json"
	"fmt"
)

// ToMap coerces an arbitrary value into a map[string]interface{} via a JSON
// round-trip. It is used to normalise tool and prompt arguments before they
// are handed to a script invoker.
func ToMap(in any) (map[string]interface{}, error) {
	if in == nil {
		return nil, nil
	}
	if m, ok := in.(map[string]interface{}); ok {
		return m, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("conv.ToMap: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("conv.ToMap: %w", err)
	}
	return m, nil
}
