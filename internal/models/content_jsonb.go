package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ContentBlob is the whiteboard's drawing state: an opaque JSON array of
// drawing elements. The server relays and stores it without inspecting
// geometry.
//
// To satisfy postgres jsonb data type.
type ContentBlob json.RawMessage

func (c *ContentBlob) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}
	*c = append((*c)[0:0], bytes...)
	return nil
}

func (c ContentBlob) Value() (driver.Value, error) {
	if len(c) == 0 {
		return []byte("[]"), nil
	}
	return []byte(c), nil
}

func (c ContentBlob) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("[]"), nil
	}
	return c, nil
}

func (c *ContentBlob) UnmarshalJSON(data []byte) error {
	*c = append((*c)[0:0], data...)
	return nil
}
