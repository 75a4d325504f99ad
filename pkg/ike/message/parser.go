package message

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Parser decodes payloads one at a time from a raw datagram. The buffer is
// never modified; the parser only advances its read offset.
type Parser struct {
	data   []byte
	offset int
}

func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// ResetContext rewinds the parser to the start of the buffer.
func (parser *Parser) ResetContext() {
	parser.offset = 0
}

// ParsePayload decodes the next payload, which the caller expects to be of
// the given type. For TypeHeader the fixed header layout is used, otherwise
// the generic payload header leads the body.
func (parser *Parser) ParsePayload(expectedType IKEPayloadType) (IKEPayload, error) {
	if expectedType == TypeHeader {
		return parser.parseHeader()
	}

	remaining := parser.data[parser.offset:]
	if err := checkLen(remaining, 4); err != nil {
		return nil, errors.Wrap(err, "decode generic payload header")
	}

	payloadLength := binary.BigEndian.Uint16(remaining[2:4])
	if payloadLength < 4 {
		return nil, errors.Wrapf(ErrDecode, "illegal payload length %d < header length 4", payloadLength)
	}
	if err := checkLen(remaining, int(payloadLength)); err != nil {
		return nil, errors.Wrap(err, "decode payload body")
	}

	payload, err := newPayloadByType(expectedType)
	if err != nil {
		return nil, err
	}

	payload.SetNextType(IKEPayloadType(remaining[0]))
	payload.header().Critical = (remaining[1] & 0x80) != 0

	if err := payload.unmarshal(remaining[4:payloadLength]); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s payload", expectedType)
	}

	parser.offset += int(payloadLength)

	return payload, nil
}

func (parser *Parser) parseHeader() (IKEPayload, error) {
	remaining := parser.data[parser.offset:]

	head := new(Header)
	if err := head.unmarshal(remaining); err != nil {
		return nil, err
	}

	parser.offset += IKE_HEADER_LEN

	return head, nil
}
