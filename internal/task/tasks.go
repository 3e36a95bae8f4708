package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeDeleteMedia = "media:delete"

	deleteMaxRetry = 3
)

type DeleteMediaPayload struct {
	PublicID string `json:"public_id"`
}

// NewDeleteMediaTask creates an Asynq task removing the stored bytes of publicID.
func NewDeleteMediaTask(publicID string) (*asynq.Task, error) {
	p := DeleteMediaPayload{PublicID: publicID}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal delete-media payload: %w", err)
	}
	return asynq.NewTask(TypeDeleteMedia, data, asynq.MaxRetry(deleteMaxRetry)), nil
}

// ParseDeleteMediaPayload parses the task payload to DeleteMediaPayload.
func ParseDeleteMediaPayload(t *asynq.Task) (DeleteMediaPayload, error) {
	var p DeleteMediaPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return DeleteMediaPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
