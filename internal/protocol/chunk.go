package protocol

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Oversized responses travel as frames:
//
//	WXC1 <message-id> <index> <total>\n<bytes>
//
// A datagram that does not start with the magic is a complete message.
const (
	frameMagic     = "WXC1"
	frameHeaderMax = 64
	maxFrames      = 1024
)

type Frame struct {
	ID    string
	Index int
	Total int
	Data  []byte
}

// IsFrame reports whether a datagram carries a chunk frame.
func IsFrame(datagram []byte) bool {
	return bytes.HasPrefix(datagram, []byte(frameMagic+" "))
}

// Split returns msg as-is when it fits in maxDatagram bytes, otherwise as
// frames that each fit in maxDatagram bytes.
func Split(msg []byte, maxDatagram int) ([][]byte, error) {
	if len(msg) <= maxDatagram {
		return [][]byte{msg}, nil
	}

	chunkSize := maxDatagram - frameHeaderMax
	if chunkSize <= 0 {
		return nil, fmt.Errorf("datagram limit %d too small for framing", maxDatagram)
	}

	total := (len(msg) + chunkSize - 1) / chunkSize
	if total > maxFrames {
		return nil, fmt.Errorf("message of %d bytes needs %d frames, limit is %d", len(msg), total, maxFrames)
	}

	id := uuid.NewString()
	frames := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		end := min((i+1)*chunkSize, len(msg))
		header := fmt.Sprintf("%s %s %d %d\n", frameMagic, id, i, total)
		frame := make([]byte, 0, len(header)+end-i*chunkSize)
		frame = append(frame, header...)
		frame = append(frame, msg[i*chunkSize:end]...)
		frames = append(frames, frame)
	}

	return frames, nil
}

// Truncate cuts msg to at most maxDatagram bytes. The result is generally
// not valid JSON; it exists for the legacy single-packet policy.
func Truncate(msg []byte, maxDatagram int) []byte {
	if len(msg) <= maxDatagram {
		return msg
	}
	return msg[:maxDatagram]
}

func ParseFrame(datagram []byte) (Frame, error) {
	nl := bytes.IndexByte(datagram, '\n')
	if !IsFrame(datagram) || nl < 0 || nl > frameHeaderMax {
		return Frame{}, fmt.Errorf("%w: not a chunk frame", ErrInvalidFormat)
	}

	parts := strings.Fields(string(datagram[:nl]))
	if len(parts) != 4 {
		return Frame{}, fmt.Errorf("%w: malformed frame header", ErrInvalidFormat)
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return Frame{}, fmt.Errorf("%w: frame index: %v", ErrInvalidFormat, err)
	}
	total, err := strconv.Atoi(parts[3])
	if err != nil {
		return Frame{}, fmt.Errorf("%w: frame total: %v", ErrInvalidFormat, err)
	}
	if total < 1 || total > maxFrames || index < 0 || index >= total {
		return Frame{}, fmt.Errorf("%w: frame %d/%d out of range", ErrInvalidFormat, index, total)
	}

	return Frame{ID: parts[1], Index: index, Total: total, Data: datagram[nl+1:]}, nil
}

// Assembler rebuilds one framed message. Frames of other messages are
// ignored, duplicates are harmless.
type Assembler struct {
	id    string
	parts [][]byte
	seen  []bool
	got   int
}

// Add stores a frame and reports whether the message is complete.
func (a *Assembler) Add(f Frame) bool {
	if a.parts == nil {
		a.id = f.ID
		a.parts = make([][]byte, f.Total)
		a.seen = make([]bool, f.Total)
	}
	if f.ID != a.id || f.Total != len(a.parts) {
		return a.Complete()
	}
	if !a.seen[f.Index] {
		a.parts[f.Index] = append([]byte(nil), f.Data...)
		a.seen[f.Index] = true
		a.got++
	}
	return a.Complete()
}

func (a *Assembler) Complete() bool {
	return a.parts != nil && a.got == len(a.parts)
}

func (a *Assembler) Bytes() []byte {
	return bytes.Join(a.parts, nil)
}
