package message

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Generator accumulates the wire form of a payload chain. Payloads are
// serialized in the order they are handed in; the fixed header, when
// present, must come first.
type Generator struct {
	buf []byte
}

func NewGenerator() *Generator {
	return &Generator{}
}

// GeneratePayload appends the payload's wire form to the buffer. For every
// payload but the fixed header a generic payload header is written first,
// carrying the payload's next type, critical bit and length.
func (generator *Generator) GeneratePayload(payload IKEPayload) error {
	payloadData, err := payload.marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s payload", payload.Type())
	}

	if payload.Type() == TypeHeader {
		generator.buf = append(generator.buf, payloadData...)
		return nil
	}

	payloadLength := len(payloadData) + 4
	if payloadLength > math.MaxUint16 {
		return errors.Errorf("%s payload length %d exceeds the limit of a generic payload header",
			payload.Type(), payloadLength)
	}

	genericHeader := make([]byte, 4)
	genericHeader[0] = uint8(payload.NextType())
	if payload.header().Critical {
		genericHeader[1] |= 0x80
	}
	binary.BigEndian.PutUint16(genericHeader[2:4], uint16(payloadLength))

	generator.buf = append(generator.buf, genericHeader...)
	generator.buf = append(generator.buf, payloadData...)

	return nil
}

// WriteToChunk returns the accumulated bytes, fixing up the total message
// length carried by the leading fixed header.
func (generator *Generator) WriteToChunk() []byte {
	if len(generator.buf) >= IKE_HEADER_LEN {
		binary.BigEndian.PutUint32(generator.buf[24:IKE_HEADER_LEN], uint32(len(generator.buf)))
	}
	return generator.buf
}
