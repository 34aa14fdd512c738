package eventdb

import (
	"encoding/json"
	"fmt"

	"github.com/truthledger/truthledger/internal/model"
	"github.com/truthledger/truthledger/internal/schema"
)

// toRecord converts an engine event into its durable form, JSON
// encoding the type-specific payload.
func toRecord(ev model.Event) (*schema.EventRecord, error) {
	payload := ""
	if ev.Data != nil {
		b, err := json.Marshal(ev.Data)
		if err != nil {
			return nil, fmt.Errorf("encode payload of event %d: %w", ev.Seq, err)
		}
		payload = string(b)
	}

	return &schema.EventRecord{
		Seq:       ev.Seq,
		EventID:   ev.ID,
		Type:      ev.Type,
		Caller:    string(ev.Caller),
		ArticleID: ev.ArticleID,
		Payload:   payload,
		EmittedAt: ev.At,
		Status:    schema.StoredStatus,
	}, nil
}
