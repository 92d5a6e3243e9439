package hasura

import (
	"encoding/json"
	"fmt"
)

// Response is the GraphQL response envelope. Data stays raw until the caller
// decodes it into a typed structure via DecodeData.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []QueryError    `json:"errors,omitempty"`
}

// QueryError is one entry of a GraphQL error list.
type QueryError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// DecodeData unmarshals the response data into v.
func (r *Response) DecodeData(v any) error {
	if r == nil || len(r.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// EventPayload is the body Hasura delivers to event trigger webhooks.
type EventPayload struct {
	Event     Event    `json:"event"`
	CreatedAt string   `json:"created_at"`
	ID        string   `json:"id"`
	Trigger   Trigger  `json:"trigger"`
	Table     TableRef `json:"table"`
}

// Event carries the triggering operation and the row state around it.
type Event struct {
	SessionVariables map[string]string `json:"session_variables"`
	Op               string            `json:"op"`
	Data             EventData         `json:"data"`
}

// EventData holds the prior and new row state. Rows stay raw because their
// shape depends on the triggering table.
type EventData struct {
	Old json.RawMessage `json:"old"`
	New json.RawMessage `json:"new"`
}

// Trigger names the event trigger that fired.
type Trigger struct {
	Name string `json:"name"`
}

// TableRef identifies the table the event originated from.
type TableRef struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

// UploadRow is the uploads-table row shape this service cares about.
type UploadRow struct {
	ID string `json:"id"`
}
