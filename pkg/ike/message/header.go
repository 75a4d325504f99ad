package message

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const IKE_HEADER_LEN int = 28

// Header is the fixed-size header leading every IKE message. It joins the
// payload chain as its first element, so its next type names the first body
// payload. The length field covers the whole message and is fixed up by
// Generator once the chain is fully serialized.
type Header struct {
	PayloadHeader
	InitiatorSPI uint64
	ResponderSPI uint64
	MajorVersion uint8
	MinorVersion uint8
	ExchangeType ExchangeType
	Flags        uint8
	MessageID    uint32
	Length       uint32
}

var _ IKEPayload = &Header{}

func (head *Header) Type() IKEPayloadType { return TypeHeader }

func (head *Header) IsResponse() bool {
	return (head.Flags & ResponseBitCheck) != 0
}

func (head *Header) IsInitiator() bool {
	return (head.Flags & InitiatorBitCheck) != 0
}

func (head *Header) Verify() error {
	if head.MajorVersion != 2 {
		return errors.Wrapf(ErrVerify, "major version %d is not 2", head.MajorVersion)
	}
	if head.InitiatorSPI == 0 {
		return errors.Wrap(ErrVerify, "initiator SPI is zero")
	}
	return nil
}

func (head *Header) marshal() ([]byte, error) {
	headerData := make([]byte, IKE_HEADER_LEN)

	binary.BigEndian.PutUint64(headerData[0:8], head.InitiatorSPI)
	binary.BigEndian.PutUint64(headerData[8:16], head.ResponderSPI)
	headerData[16] = uint8(head.NextPayload)
	headerData[17] = (head.MajorVersion << 4) | (head.MinorVersion & 0x0F)
	headerData[18] = uint8(head.ExchangeType)
	headerData[19] = head.Flags
	binary.BigEndian.PutUint32(headerData[20:24], head.MessageID)
	binary.BigEndian.PutUint32(headerData[24:28], head.Length)

	return headerData, nil
}

func (head *Header) unmarshal(rawData []byte) error {
	if err := checkLen(rawData, IKE_HEADER_LEN); err != nil {
		return errors.Wrap(err, "decode IKE header")
	}

	head.InitiatorSPI = binary.BigEndian.Uint64(rawData[0:8])
	head.ResponderSPI = binary.BigEndian.Uint64(rawData[8:16])
	head.NextPayload = IKEPayloadType(rawData[16])
	head.MajorVersion = rawData[17] >> 4
	head.MinorVersion = rawData[17] & 0x0F
	head.ExchangeType = ExchangeType(rawData[18])
	head.Flags = rawData[19]
	head.MessageID = binary.BigEndian.Uint32(rawData[20:24])
	head.Length = binary.BigEndian.Uint32(rawData[24:28])

	return nil
}
