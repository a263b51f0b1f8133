package schema

import "encoding/json"

// Record is one level of a serialized active stack.
type Record struct {
	// Type is one of domain's kind strings: "decision", "action",
	// "sequence" or "abstract".
	Type string `json:"type"`

	// ActivationReason is the branch label that selected this element.
	// Nil only at the root.
	ActivationReason *string `json:"activation_reason"`

	// DebugData is the payload the bound behavior attached. Omitted for
	// sequences, which report per-action payloads in Content.
	DebugData any `json:"debug_data,omitempty"`

	// Content holds per-action debug payloads for sequence records.
	Content []ContentRecord `json:"content,omitempty"`

	// Next is the child one level further down the stack, or nil at
	// the current leaf.
	Next *Record `json:"next"`
}

// ContentRecord is the debug payload of a single action inside a
// sequence record.
type ContentRecord struct {
	DebugData any `json:"debug_data"`
}

// Marshal encodes the record chain as JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal decodes a snapshot payload.
func Unmarshal(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Depth returns the number of levels in the record chain.
func (r *Record) Depth() int {
	depth := 0
	for cur := r; cur != nil; cur = cur.Next {
		depth++
	}
	return depth
}
