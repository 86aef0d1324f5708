package domain

import (
	"encoding/json"
	"errors"
)

var (
	ErrInvalidRates    = errors.New("invalid upstream rates")
	ErrHistoryDisabled = errors.New("quote history disabled")
)

// UpstreamRejectedError is returned when the upstream body parsed but did not
// report success or carried no rates. Payload is the body as received.
type UpstreamRejectedError struct {
	Payload json.RawMessage
}

func (e *UpstreamRejectedError) Error() string {
	return "upstream rejected request"
}
