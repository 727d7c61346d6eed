package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the server-to-client envelope. On success exactly one of
// Current or Detail carries the payload, matching the request type.
type Response struct {
	Success bool
	Error   string
	Current *CurrentPayload
	Detail  *DayDetailPayload
}

type envelope struct {
	Success bool            `json:"success"`
	Error   *string         `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func NewCurrentResponse(p *CurrentPayload) Response {
	return Response{Success: true, Current: p}
}

func NewDayDetailResponse(p *DayDetailPayload) Response {
	return Response{Success: true, Detail: p}
}

func NewErrorResponse(msg string) Response {
	return Response{Success: false, Error: msg}
}

func (r Response) MarshalJSON() ([]byte, error) {
	env := envelope{Success: r.Success}
	if r.Error != "" {
		msg := r.Error
		env.Error = &msg
	}

	var (
		data []byte
		err  error
	)
	switch {
	case r.Current != nil:
		data, err = json.Marshal(r.Current)
	case r.Detail != nil:
		data, err = json.Marshal(r.Detail)
	}
	if err != nil {
		return nil, err
	}
	env.Data = data

	return json.Marshal(env)
}

func EncodeResponse(r Response) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeResponse decodes an envelope whose data, if any, has the shape
// belonging to kind.
func DecodeResponse(data []byte, kind RequestType) (*Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	resp := &Response{Success: env.Success}
	if env.Error != nil {
		resp.Error = *env.Error
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return resp, nil
	}

	switch kind {
	case RequestCurrent:
		resp.Current = &CurrentPayload{}
		if err := json.Unmarshal(env.Data, resp.Current); err != nil {
			return nil, fmt.Errorf("%w: current payload: %v", ErrInvalidFormat, err)
		}
	case RequestDetailDay:
		resp.Detail = &DayDetailPayload{}
		if err := json.Unmarshal(env.Data, resp.Detail); err != nil {
			return nil, fmt.Errorf("%w: day detail payload: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown payload kind %q", ErrInvalidFormat, kind)
	}

	return resp, nil
}
