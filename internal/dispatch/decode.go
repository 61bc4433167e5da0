package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeJob parses a job payload. The payload may be the JSON object itself or
// a JSON string that contains the object.
func DecodeJob(data []byte) (Job, error) {
	var job Job
	if err := UnmarshalBody(data, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// UnmarshalJSON accepts IID as a JSON string or a JSON number.
func (j *Job) UnmarshalJSON(data []byte) error {
	type plain Job
	aux := struct {
		*plain
		IID json.RawMessage `json:"IID"`
	}{plain: (*plain)(j)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	iid, err := DecodeID(aux.IID)
	if err != nil {
		return err
	}
	j.IID = iid
	return nil
}

// DecodeID returns a job identifier given as a JSON string or number. Numbers
// keep their literal text, so 12345 becomes "12345". An absent or null value
// is empty.
func DecodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode IID: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("IID must be a string or a number: %w", err)
	}
	return n.String(), nil
}

// UnmarshalBody decodes a JSON object into v, unwrapping it first if the
// payload is a JSON-encoded string.
func UnmarshalBody(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return fmt.Errorf("decode body string: %w", err)
		}
		trimmed = []byte(inner)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
