package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"

	"learnhub/internal/apperr"
)

// decodeEnvelope accepts the response shapes the platform is known to emit
// and decodes the payload into out:
//
//	<payload>
//	{"data": <payload>}
//	{"data": {"<key>": <payload>}}
//	{"<key>": <payload>}
//
// Anything else is a shape error.
func decodeEnvelope(body []byte, key string, out any) error {
	raw, err := unwrap(body, key)
	if err != nil {
		log.Printf("client: unexpected %q response shape: %v", key, err)
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("client: unexpected %q response shape: %v", key, err)
		return apperr.Shape("unexpected "+key+" payload", err)
	}
	return nil
}

func decodeObject(body []byte, out any) error {
	raw, err := unwrap(body, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Shape("unexpected response payload", err)
	}
	return nil
}

var errEmptyBody = errors.New("empty response body")

func unwrap(body []byte, key string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, apperr.Shape("empty response", errEmptyBody)
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, apperr.Shape("malformed response", err)
	}
	if data, ok := obj["data"]; ok {
		inner := bytes.TrimSpace(data)
		if key != "" && len(inner) > 0 && inner[0] == '{' {
			var innerObj map[string]json.RawMessage
			if err := json.Unmarshal(inner, &innerObj); err == nil {
				if v, ok := innerObj[key]; ok {
					return v, nil
				}
			}
		}
		return inner, nil
	}
	if key != "" {
		if v, ok := obj[key]; ok {
			return v, nil
		}
	}
	return trimmed, nil
}
