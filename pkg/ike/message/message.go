package message

import (
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/5l1v3r1/strongswan/internal/logger"
)

// Message is one IKE message, either received from a peer or under
// construction for sending. It owns its payload chain, its packet and its
// SA identifier exclusively; accessors hand out independent copies. A
// message must not be shared between goroutines.
type Message struct {
	MajorVersion uint8
	MinorVersion uint8
	ExchangeType ExchangeType
	IsRequest    bool
	MessageID    uint32

	firstPayload IKEPayloadType
	payloads     IKEPayloadContainer
	ikeSaId      *IkeSaId
	packet       *Packet
	parser       *Parser
	log          *logrus.Entry
}

// NewMessage creates an empty outbound message. A nil log falls back to the
// package category entry.
func NewMessage(log *logrus.Entry) *Message {
	if log == nil {
		log = logger.IKELog
	}
	return &Message{
		MajorVersion: 2,
		MinorVersion: 0,
		IsRequest:    true,
		packet:       new(Packet),
		log:          log,
	}
}

// NewMessageFromPacket creates an inbound message bound to a received
// packet, taking ownership of it.
func NewMessageFromPacket(log *logrus.Entry, packet *Packet) *Message {
	ikeMessage := NewMessage(log)
	ikeMessage.packet = packet
	ikeMessage.parser = NewParser(packet.Data)
	return ikeMessage
}

// AddPayload appends the payload to the end of the chain, taking ownership
// of it. The previous tail's next type is fixed up to keep the chain links
// consistent with the ordering.
func (ikeMessage *Message) AddPayload(payload IKEPayload) {
	if len(ikeMessage.payloads) == 0 {
		ikeMessage.firstPayload = payload.Type()
	} else {
		ikeMessage.payloads[len(ikeMessage.payloads)-1].SetNextType(payload.Type())
	}
	// The next type of an encrypted payload names its first inner payload
	// and is managed by the caller.
	if payload.Type() != TypeSK {
		payload.SetNextType(NoNext)
	}
	ikeMessage.payloads = append(ikeMessage.payloads, payload)
}

// Payloads returns the message's payload chain in order. The chain stays
// owned by the message.
func (ikeMessage *Message) Payloads() IKEPayloadContainer {
	return ikeMessage.payloads
}

// FirstPayloadType reports the type of the first payload in the chain,
// NoNext when the chain is empty.
func (ikeMessage *Message) FirstPayloadType() IKEPayloadType {
	return ikeMessage.firstPayload
}

// SetIkeSaId stores an independent copy of the identifier, replacing any
// previous one.
func (ikeMessage *Message) SetIkeSaId(saId *IkeSaId) {
	if saId == nil {
		ikeMessage.ikeSaId = nil
		return
	}
	ikeMessage.ikeSaId = saId.Clone()
}

// IkeSaId returns an independent copy of the message's SA identifier.
func (ikeMessage *Message) IkeSaId() (*IkeSaId, error) {
	if ikeMessage.ikeSaId == nil {
		return nil, errors.Wrap(ErrNotFound, "message carries no IKE SA id")
	}
	return ikeMessage.ikeSaId.Clone(), nil
}

func (ikeMessage *Message) SetSource(addr *net.UDPAddr) {
	if ikeMessage.packet == nil {
		ikeMessage.packet = new(Packet)
	}
	ikeMessage.packet.Source = addr
}

func (ikeMessage *Message) SetDestination(addr *net.UDPAddr) {
	if ikeMessage.packet == nil {
		ikeMessage.packet = new(Packet)
	}
	ikeMessage.packet.Destination = addr
}

func (ikeMessage *Message) Source() *net.UDPAddr {
	if ikeMessage.packet == nil {
		return nil
	}
	return ikeMessage.packet.Source
}

func (ikeMessage *Message) Destination() *net.UDPAddr {
	if ikeMessage.packet == nil {
		return nil
	}
	return ikeMessage.packet.Destination
}

// Packet returns an independent copy of the message's packet, nil when the
// message has none.
func (ikeMessage *Message) Packet() *Packet {
	if ikeMessage.packet == nil {
		return nil
	}
	return ikeMessage.packet.Clone()
}

// PacketData returns a copy of the raw message bytes.
func (ikeMessage *Message) PacketData() []byte {
	if ikeMessage.packet == nil || ikeMessage.packet.Data == nil {
		return nil
	}
	return append([]byte(nil), ikeMessage.packet.Data...)
}

// Generate serializes the message into its packet, wiring the next type
// links along the chain, and returns an independent packet ready for
// transmission. The exchange type, both packet addresses and the SA
// identifier must be set beforehand.
func (ikeMessage *Message) Generate() (*Packet, error) {
	if ikeMessage.ExchangeType == NoExchange {
		ikeMessage.log.Error("Generate(): Exchange type is not defined")
		return nil, errors.Wrap(ErrInvalidState, "exchange type is not defined")
	}
	if ikeMessage.packet == nil || ikeMessage.packet.Source == nil || ikeMessage.packet.Destination == nil {
		ikeMessage.log.Error("Generate(): Source or destination address is not defined")
		return nil, errors.Wrap(ErrInvalidState, "source or destination address is not defined")
	}
	if ikeMessage.ikeSaId == nil {
		ikeMessage.log.Error("Generate(): IKE SA id is not defined")
		return nil, errors.Wrap(ErrInvalidState, "IKE SA id is not defined")
	}

	head := &Header{
		InitiatorSPI: ikeMessage.ikeSaId.InitiatorSPI,
		ResponderSPI: ikeMessage.ikeSaId.ResponderSPI,
		MajorVersion: ikeMessage.MajorVersion,
		MinorVersion: ikeMessage.MinorVersion,
		ExchangeType: ikeMessage.ExchangeType,
		MessageID:    ikeMessage.MessageID,
	}
	if !ikeMessage.IsRequest {
		head.Flags |= ResponseBitCheck
	}
	if ikeMessage.ikeSaId.Initiator {
		head.Flags |= InitiatorBitCheck
	}

	generator := NewGenerator()

	var current IKEPayload = head
	for _, next := range ikeMessage.payloads {
		current.SetNextType(next.Type())
		if err := generator.GeneratePayload(current); err != nil {
			ikeMessage.log.Errorf("Generate(): Generate %s payload failed: %+v", current.Type(), err)
			return nil, err
		}
		current = next
	}
	if current.Type() != TypeSK {
		current.SetNextType(NoNext)
	}
	if err := generator.GeneratePayload(current); err != nil {
		ikeMessage.log.Errorf("Generate(): Generate %s payload failed: %+v", current.Type(), err)
		return nil, err
	}

	ikeMessage.packet.Data = generator.WriteToChunk()

	ikeMessage.log.Debugf("Generated %s %s, message id %d, %d payloads, %d bytes",
		ikeMessage.ExchangeType, direction(ikeMessage.IsRequest),
		ikeMessage.MessageID, len(ikeMessage.payloads), len(ikeMessage.packet.Data))

	return ikeMessage.packet.Clone(), nil
}

// ParseHeader decodes and verifies the fixed header of the bound packet,
// recording the exchange metadata and replacing the message's SA
// identifier. It is cheap and must run before ParseBody. On failure the
// message state is left unchanged.
func (ikeMessage *Message) ParseHeader() error {
	if ikeMessage.parser == nil {
		ikeMessage.log.Error("ParseHeader(): No packet is bound to this message")
		return errors.Wrap(ErrInvalidState, "no packet is bound to this message")
	}

	ikeMessage.parser.ResetContext()

	payload, err := ikeMessage.parser.ParsePayload(TypeHeader)
	if err != nil {
		ikeMessage.log.Errorf("ParseHeader(): Parse IKE header failed: %+v", err)
		return err
	}
	head := payload.(*Header)

	if int(head.Length) != len(ikeMessage.packet.Data) {
		ikeMessage.log.Errorf("ParseHeader(): Header length %d does not match packet length %d",
			head.Length, len(ikeMessage.packet.Data))
		return errors.Wrapf(ErrDecode, "header length %d does not match packet length %d",
			head.Length, len(ikeMessage.packet.Data))
	}

	if err := head.Verify(); err != nil {
		ikeMessage.log.Errorf("ParseHeader(): Verify IKE header failed: %+v", err)
		return err
	}

	ikeMessage.ikeSaId = NewIkeSaId(head.InitiatorSPI, head.ResponderSPI, head.IsInitiator())
	ikeMessage.MajorVersion = head.MajorVersion
	ikeMessage.MinorVersion = head.MinorVersion
	ikeMessage.ExchangeType = head.ExchangeType
	ikeMessage.MessageID = head.MessageID
	ikeMessage.IsRequest = !head.IsResponse()
	ikeMessage.firstPayload = head.NextType()

	ikeMessage.log.Debugf("Parsed header of %s %s, message id %d, first payload %s",
		ikeMessage.ExchangeType, direction(ikeMessage.IsRequest),
		ikeMessage.MessageID, ikeMessage.firstPayload)

	return nil
}

// ParseBody walks the packet's remaining bytes payload by payload,
// following the chain links recorded on the wire, then checks occurrence
// bounds against the message rules for the exchange. Payloads decoded and
// verified before a failure stay appended to the chain.
func (ikeMessage *Message) ParseBody() error {
	if ikeMessage.parser == nil {
		ikeMessage.log.Error("ParseBody(): No packet is bound to this message")
		return errors.Wrap(ErrInvalidState, "no packet is bound to this message")
	}

	rules, err := payloadRulesFor(ikeMessage.ExchangeType, ikeMessage.IsRequest)
	if err != nil {
		ikeMessage.log.Errorf("ParseBody(): %+v", err)
		return err
	}

	currentType := ikeMessage.firstPayload
	for currentType != NoNext {
		if !ruleAllows(rules, currentType) {
			ikeMessage.log.Errorf("ParseBody(): Payload %s not allowed in %s %s",
				currentType, ikeMessage.ExchangeType, direction(ikeMessage.IsRequest))
			return errors.Wrapf(ErrNotSupported, "payload of type %s not allowed in %s %s",
				currentType, ikeMessage.ExchangeType, direction(ikeMessage.IsRequest))
		}

		payload, err := ikeMessage.parser.ParsePayload(currentType)
		if err != nil {
			ikeMessage.log.Errorf("ParseBody(): Parse %s payload failed: %+v", currentType, err)
			return err
		}

		if err := payload.Verify(); err != nil {
			ikeMessage.log.Errorf("ParseBody(): Verify %s payload failed: %+v", currentType, err)
			return err
		}

		currentType = payload.NextType()
		ikeMessage.payloads = append(ikeMessage.payloads, payload)
	}

	for _, rule := range rules {
		count := 0
		for _, payload := range ikeMessage.payloads {
			if payload.Type() != rule.payloadType {
				continue
			}
			count++
			if count > rule.max {
				ikeMessage.log.Errorf("ParseBody(): Payload %s occurs more than %d times",
					rule.payloadType, rule.max)
				return errors.Wrapf(ErrNotSupported, "payload of type %s occurs more than %d times",
					rule.payloadType, rule.max)
			}
		}
		if count < rule.min {
			ikeMessage.log.Errorf("ParseBody(): Payload %s occurs %d times, at least %d expected",
				rule.payloadType, count, rule.min)
			return errors.Wrapf(ErrNotSupported, "payload of type %s occurs %d times, at least %d expected",
				rule.payloadType, count, rule.min)
		}
	}

	ikeMessage.log.Debugf("Parsed body of %s %s with %d payloads",
		ikeMessage.ExchangeType, direction(ikeMessage.IsRequest), len(ikeMessage.payloads))

	return nil
}
