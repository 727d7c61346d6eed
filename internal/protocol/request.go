package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidFormat marks a datagram that is not a well-formed message.
var ErrInvalidFormat = errors.New("invalid message format")

type RequestType string

const (
	RequestCurrent   RequestType = "CURRENT"
	RequestDetailDay RequestType = "DETAIL_DAY"
)

func (t RequestType) Known() bool {
	return t == RequestCurrent || t == RequestDetailDay
}

// Request is the client-to-server message. DayTimestamp is set only for
// DETAIL_DAY requests and is always serialized, as null when absent.
type Request struct {
	Type         RequestType `json:"type"`
	City         string      `json:"city"`
	DayTimestamp *int64      `json:"dayTimestamp"`
}

func NewCurrentRequest(city string) Request {
	return Request{Type: RequestCurrent, City: city}
}

func NewDayDetailRequest(city string, dayTimestamp int64) Request {
	return Request{Type: RequestDetailDay, City: city, DayTimestamp: &dayTimestamp}
}

func EncodeRequest(r Request) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRequest(data []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return r, nil
}
