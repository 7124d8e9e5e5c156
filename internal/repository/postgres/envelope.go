package postgres

import (
	"encoding/json"

	"github.com/antbox/antbox/internal/node"
)

func marshalEnvelope(n *node.Node) ([]byte, error) {
	return json.Marshal(node.ToMetadata(n))
}

func unmarshalEnvelope(b []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
