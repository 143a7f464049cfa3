package livesource

import (
	"encoding/json"
	"fmt"

	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
)

type Op string

const (
	// OpUpsert replaces records with the same id and appends new ones.
	OpUpsert Op = "upsert"
	// OpRemove drops the listed ids.
	OpRemove Op = "remove"
	// OpReplace swaps the whole live collection.
	OpReplace Op = "replace"
)

// Update is the wire form of one change to a screen's live collection.
// Records stay raw until a typed store decodes them.
type Update struct {
	Screen        string          `json:"screen" validate:"required"`
	Op            Op              `json:"op" validate:"required,oneof=upsert remove replace"`
	Records       json.RawMessage `json:"records,omitempty"`
	Ids           []string        `json:"ids,omitempty" validate:"required_if=Op remove"`
	CorrelationId string          `json:"correlation_id,omitempty"`
}

// PubSubPushEnvelope is the body Pub/Sub posts to a push endpoint.
type PubSubPushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data,omitempty"`
		ID         string            `json:"id"`
		Attributes map[string]string `json:"attributes,omitempty"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodeUpdate parses and validates an update payload.
func DecodeUpdate(data []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		return u, fmt.Errorf("decode live update: %w", err)
	}
	if err := utils.ValidateStruct(u); err != nil {
		return u, fmt.Errorf("invalid live update: %w", err)
	}
	if u.Op != OpRemove && len(u.Records) == 0 {
		return u, fmt.Errorf("invalid live update: %s without records", u.Op)
	}
	return u, nil
}

// NewUpdate encodes records into an update for screen.
func NewUpdate[R any](screen string, op Op, records []R) (Update, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return Update{}, fmt.Errorf("encode live records: %w", err)
	}
	return Update{Screen: screen, Op: op, Records: raw}, nil
}

// RemoveUpdate builds an OpRemove update.
func RemoveUpdate(screen string, ids ...string) Update {
	return Update{Screen: screen, Op: OpRemove, Ids: ids}
}

func (u Update) Encode() ([]byte, error) {
	return json.Marshal(u)
}

// decodeRecords decodes the raw record array of u.
func decodeRecords[R any](u Update) ([]R, error) {
	var records []R
	if len(u.Records) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(u.Records, &records); err != nil {
		return nil, fmt.Errorf("decode %s records: %w", u.Screen, err)
	}
	return records, nil
}
