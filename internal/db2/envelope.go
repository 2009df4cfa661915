package db2

import (
	"encoding/json"
	"fmt"
)

// Operation names a DB2 REST service exposed by the gateway.
type Operation string

const (
	OpInsert        Operation = "insert"
	OpFindAll       Operation = "findall"
	OpFindByEmail   Operation = "findbyemail"
	OpDeleteByEmail Operation = "deletebyemail"
	OpUpdate        Operation = "update"
)

// Envelope is the JSON document returned by every DB2 REST service.
// Queries fill ResultSet, mutations fill UpdateCount.
type Envelope struct {
	ResultSet         []json.RawMessage `json:"ResultSet Output"`
	UpdateCount       int               `json:"Update Count"`
	StatusCode        int               `json:"StatusCode"`
	StatusDescription string            `json:"StatusDescription"`
}

// Rows decodes each result set row into a value of type T.
func Rows[T any](env *Envelope) ([]T, error) {
	rows := make([]T, 0, len(env.ResultSet))
	for i, raw := range env.ResultSet {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
