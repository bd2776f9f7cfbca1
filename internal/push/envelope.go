package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errMissingType = errors.New("envelope has no type")

func decodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	env.Type = strings.TrimSpace(env.Type)
	if env.Type == "" {
		return Envelope{}, errMissingType
	}
	return env, nil
}
