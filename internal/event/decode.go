package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns input as T. In-process payloads are already T (or
// *T); payloads that went through the browser channel or the realtime
// socket arrive as raw JSON or generic maps and are re-decoded.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("decode %T: nil payload", result)
		}
		return *v, nil
	case json.RawMessage:
		return result, unmarshalPayload(v, &result)
	case []byte:
		return result, unmarshalPayload(v, &result)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("decode %T: %w", result, err)
	}
	return result, unmarshalPayload(data, &result)
}

func unmarshalPayload[T any](data []byte, out *T) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %T: %w", *out, err)
	}
	return nil
}
