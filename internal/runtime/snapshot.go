package runtime

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/schema"
)

// Snapshot serializes the active stack top-down into the mirroring wire
// format. Returns nil when the stack is empty.
func (e *Engine) Snapshot() *schema.Record {
	if len(e.stack) == 0 {
		return nil
	}

	var head, tail *schema.Record
	for i, f := range e.stack {
		rec := &schema.Record{Type: f.element.Kind()}
		if i > 0 {
			reason := f.reason
			rec.ActivationReason = &reason
		}

		if seq, ok := f.element.(*domain.Sequence); ok {
			rec.Content = make([]schema.ContentRecord, len(seq.Actions()))
			for j, act := range seq.Actions() {
				rec.Content[j] = schema.ContentRecord{DebugData: act.DebugData()}
			}
		} else {
			rec.DebugData = f.element.DebugData()
		}

		if head == nil {
			head = rec
		} else {
			tail.Next = rec
		}
		tail = rec
	}
	return head
}
