// Package api defines the Connect procedures and messages shared by the
// server and its clients.
//
// Messages are plain Go structs encoded with JSONCodec, so no generated
// protobuf code is involved. Both sides must pass connect.WithCodec(JSONCodec{}).
package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is a connect.Codec for plain Go structs. It registers under the
// name "json", replacing the protobuf JSON codec.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return b, nil
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
