package checkpoint

import (
	"encoding/json"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// JSONCodec is a pregel.StateCodec that marshals/unmarshals a workflow
// state through encoding/json. S is the concrete WorkflowState type a
// given graph uses (e.g. vertex.GraphState); it must be JSON-serializable
// for this codec to round-trip correctly.
type JSONCodec[U pregel.StateUpdate, S pregel.WorkflowState[U]] struct{}

// Marshal JSON-encodes s.
func (JSONCodec[U, S]) Marshal(s pregel.WorkflowState[U]) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal JSON-decodes data into a zero-valued S.
func (JSONCodec[U, S]) Unmarshal(data []byte) (pregel.WorkflowState[U], error) {
	var s S
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}
