package message

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// PayloadHeader carries the chain state shared by every payload: the type of
// the payload that follows it and the critical bit. It is embedded by all
// payload variants.
type PayloadHeader struct {
	NextPayload IKEPayloadType
	Critical    bool
}

func (h *PayloadHeader) NextType() IKEPayloadType {
	return h.NextPayload
}

func (h *PayloadHeader) SetNextType(next IKEPayloadType) {
	h.NextPayload = next
}

func (h *PayloadHeader) header() *PayloadHeader {
	return h
}

// IKEPayload is implemented by every payload variant, the fixed message
// header included. marshal and unmarshal cover the payload body only; the
// four byte generic payload header is written by Generator and consumed by
// Parser.
type IKEPayload interface {
	// Type specifies the IKE payload type
	Type() IKEPayloadType

	// NextType reports the type of the payload that follows this one in
	// the chain
	NextType() IKEPayloadType

	// SetNextType records the type of the payload that follows this one
	// in the chain
	SetNextType(next IKEPayloadType)

	// Verify checks the decoded content against its semantic constraints
	Verify() error

	// Called by Generator to marshal the payload body
	marshal() ([]byte, error)

	// Called by Parser to unmarshal the payload body
	unmarshal(rawData []byte) error

	// Grants Parser and Generator access to the embedded chain state
	header() *PayloadHeader
}

// IKEPayloadContainer is an ordered list of payloads.
type IKEPayloadContainer []IKEPayload

func (container *IKEPayloadContainer) Reset() {
	*container = nil
}

func newPayloadByType(payloadType IKEPayloadType) (IKEPayload, error) {
	switch payloadType {
	case TypeSA:
		return new(SecurityAssociation), nil
	case TypeKE:
		return new(KeyExchange), nil
	case TypeIDi:
		return new(IdentificationInitiator), nil
	case TypeIDr:
		return new(IdentificationResponder), nil
	case TypeCERT:
		return new(Certificate), nil
	case TypeCERTreq:
		return new(CertificateRequest), nil
	case TypeAUTH:
		return new(Authentication), nil
	case TypeNiNr:
		return new(Nonce), nil
	case TypeN:
		return new(Notification), nil
	case TypeD:
		return new(Delete), nil
	case TypeV:
		return new(VendorID), nil
	case TypeTSi:
		return new(TrafficSelectorInitiator), nil
	case TypeTSr:
		return new(TrafficSelectorResponder), nil
	case TypeSK:
		return new(Encrypted), nil
	case TypeCP:
		return new(Configuration), nil
	case TypeEAP:
		return new(EAP), nil
	case TypeHeader:
		return new(Header), nil
	default:
		return nil, errors.Wrapf(ErrDecode, "no payload implementation for type %d", payloadType)
	}
}

func checkLen(rawData []byte, expectLen int) error {
	if len(rawData) < expectLen {
		return errors.Wrapf(ErrDecode, "expected length %d, got %d", expectLen, len(rawData))
	}
	return nil
}

// Definition of Security Association

var _ IKEPayload = &SecurityAssociation{}

type SecurityAssociation struct {
	PayloadHeader
	Proposals ProposalContainer
}

type ProposalContainer []*Proposal

type Proposal struct {
	ProposalNumber          uint8
	ProtocolID              uint8
	SPI                     []byte
	EncryptionAlgorithm     TransformContainer
	PseudorandomFunction    TransformContainer
	IntegrityAlgorithm      TransformContainer
	DiffieHellmanGroup      TransformContainer
	ExtendedSequenceNumbers TransformContainer
}

type TransformContainer []*Transform

type Transform struct {
	TransformType                uint8
	TransformID                  uint16
	AttributePresent             bool
	AttributeFormat              uint8
	AttributeType                uint16
	AttributeValue               uint16
	VariableLengthAttributeValue []byte
}

func (p *Proposal) transforms() []*Transform {
	transformList := make([]*Transform, 0,
		len(p.EncryptionAlgorithm)+len(p.PseudorandomFunction)+len(p.IntegrityAlgorithm)+
			len(p.DiffieHellmanGroup)+len(p.ExtendedSequenceNumbers))
	transformList = append(transformList, p.EncryptionAlgorithm...)
	transformList = append(transformList, p.PseudorandomFunction...)
	transformList = append(transformList, p.IntegrityAlgorithm...)
	transformList = append(transformList, p.DiffieHellmanGroup...)
	transformList = append(transformList, p.ExtendedSequenceNumbers...)
	return transformList
}

func (securityAssociation *SecurityAssociation) Type() IKEPayloadType { return TypeSA }

func (securityAssociation *SecurityAssociation) Verify() error {
	if len(securityAssociation.Proposals) == 0 {
		return errors.Wrap(ErrVerify, "security association carries no proposal")
	}
	for _, proposal := range securityAssociation.Proposals {
		if len(proposal.transforms()) == 0 {
			return errors.Wrapf(ErrVerify, "proposal %d carries no transform", proposal.ProposalNumber)
		}
	}
	return nil
}

func (securityAssociation *SecurityAssociation) marshal() ([]byte, error) {
	securityAssociationData := make([]byte, 0)

	for proposalIndex, proposal := range securityAssociation.Proposals {
		proposalData := make([]byte, 8)

		if (proposalIndex + 1) < len(securityAssociation.Proposals) {
			proposalData[0] = 2
		}
		proposalData[4] = proposal.ProposalNumber
		proposalData[5] = proposal.ProtocolID
		proposalData[6] = uint8(len(proposal.SPI))
		proposalData = append(proposalData, proposal.SPI...)

		transformList := proposal.transforms()
		if len(transformList) == 0 {
			return nil, errors.Errorf("proposal %d has no transform to marshal", proposal.ProposalNumber)
		}
		proposalData[7] = uint8(len(transformList))

		for transformIndex, transform := range transformList {
			transformData := make([]byte, 8)

			if (transformIndex + 1) < len(transformList) {
				transformData[0] = 3
			}
			transformData[4] = transform.TransformType
			binary.BigEndian.PutUint16(transformData[6:8], transform.TransformID)

			if transform.AttributePresent {
				attributeData := make([]byte, 4)
				binary.BigEndian.PutUint16(attributeData[0:2],
					(uint16(transform.AttributeFormat)<<15)|transform.AttributeType)
				if transform.AttributeFormat == AttributeFormatUseTV {
					binary.BigEndian.PutUint16(attributeData[2:4], transform.AttributeValue)
				} else {
					binary.BigEndian.PutUint16(attributeData[2:4],
						uint16(len(transform.VariableLengthAttributeValue)))
					attributeData = append(attributeData, transform.VariableLengthAttributeValue...)
				}
				transformData = append(transformData, attributeData...)
			}

			binary.BigEndian.PutUint16(transformData[2:4], uint16(len(transformData)))
			proposalData = append(proposalData, transformData...)
		}

		binary.BigEndian.PutUint16(proposalData[2:4], uint16(len(proposalData)))
		securityAssociationData = append(securityAssociationData, proposalData...)
	}

	return securityAssociationData, nil
}

func (securityAssociation *SecurityAssociation) unmarshal(rawData []byte) error {
	for len(rawData) > 0 {
		if err := checkLen(rawData, 8); err != nil {
			return errors.Wrap(err, "decode proposal header")
		}
		proposalLength := binary.BigEndian.Uint16(rawData[2:4])
		if proposalLength < 8 {
			return errors.Wrapf(ErrDecode, "illegal proposal length %d < header length 8", proposalLength)
		}
		if err := checkLen(rawData, int(proposalLength)); err != nil {
			return errors.Wrap(err, "decode proposal body")
		}

		proposal := new(Proposal)
		proposal.ProposalNumber = rawData[4]
		proposal.ProtocolID = rawData[5]

		spiSize := rawData[6]
		if spiSize > 0 {
			if err := checkLen(rawData, int(8+spiSize)); err != nil {
				return errors.Wrap(err, "decode proposal SPI")
			}
			proposal.SPI = append(proposal.SPI, rawData[8:8+spiSize]...)
		}
		if int(proposalLength) < int(8+spiSize) {
			return errors.Wrapf(ErrDecode, "proposal length %d too small for SPI size %d", proposalLength, spiSize)
		}

		transformData := rawData[8+spiSize : proposalLength]

		for len(transformData) > 0 {
			if err := checkLen(transformData, 8); err != nil {
				return errors.Wrap(err, "decode transform header")
			}
			transformLength := binary.BigEndian.Uint16(transformData[2:4])
			if transformLength < 8 {
				return errors.Wrapf(ErrDecode, "illegal transform length %d < header length 8", transformLength)
			}
			if err := checkLen(transformData, int(transformLength)); err != nil {
				return errors.Wrap(err, "decode transform body")
			}

			transform := new(Transform)
			transform.TransformType = transformData[4]
			transform.TransformID = binary.BigEndian.Uint16(transformData[6:8])
			if transformLength > 8 {
				if transformLength < 12 {
					return errors.Wrapf(ErrDecode,
						"illegal transform length %d for a transform with an attribute", transformLength)
				}
				transform.AttributePresent = true
				transform.AttributeFormat = uint8((binary.BigEndian.Uint16(transformData[8:10]) & 0x8000) >> 15)
				transform.AttributeType = binary.BigEndian.Uint16(transformData[8:10]) & 0x7fff

				if transform.AttributeFormat == AttributeFormatUseTV {
					transform.AttributeValue = binary.BigEndian.Uint16(transformData[10:12])
				} else {
					attributeLength := binary.BigEndian.Uint16(transformData[10:12])
					if int(12+attributeLength) != int(transformLength) {
						return errors.Wrapf(ErrDecode,
							"illegal attribute length %d not matching transform length %d",
							attributeLength, transformLength)
					}
					transform.VariableLengthAttributeValue =
						append(transform.VariableLengthAttributeValue, transformData[12:12+attributeLength]...)
				}
			}

			switch transform.TransformType {
			case TypeEncryptionAlgorithm:
				proposal.EncryptionAlgorithm = append(proposal.EncryptionAlgorithm, transform)
			case TypePseudorandomFunction:
				proposal.PseudorandomFunction = append(proposal.PseudorandomFunction, transform)
			case TypeIntegrityAlgorithm:
				proposal.IntegrityAlgorithm = append(proposal.IntegrityAlgorithm, transform)
			case TypeDiffieHellmanGroup:
				proposal.DiffieHellmanGroup = append(proposal.DiffieHellmanGroup, transform)
			case TypeExtendedSequenceNumbers:
				proposal.ExtendedSequenceNumbers = append(proposal.ExtendedSequenceNumbers, transform)
			default:
				return errors.Wrapf(ErrDecode, "unknown transform type %d", transform.TransformType)
			}

			transformData = transformData[transformLength:]
		}

		securityAssociation.Proposals = append(securityAssociation.Proposals, proposal)

		rawData = rawData[proposalLength:]
	}

	return nil
}

// Definition of Key Exchange

var _ IKEPayload = &KeyExchange{}

type KeyExchange struct {
	PayloadHeader
	DiffieHellmanGroup uint16
	KeyExchangeData    []byte
}

func (keyExchange *KeyExchange) Type() IKEPayloadType { return TypeKE }

func (keyExchange *KeyExchange) Verify() error {
	if len(keyExchange.KeyExchangeData) == 0 {
		return errors.Wrap(ErrVerify, "key exchange carries no key data")
	}
	return nil
}

func (keyExchange *KeyExchange) marshal() ([]byte, error) {
	keyExchangeData := make([]byte, 4)

	binary.BigEndian.PutUint16(keyExchangeData[0:2], keyExchange.DiffieHellmanGroup)
	keyExchangeData = append(keyExchangeData, keyExchange.KeyExchangeData...)

	return keyExchangeData, nil
}

func (keyExchange *KeyExchange) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if len(rawData) <= 4 {
			return errors.Wrap(ErrDecode, "no sufficient bytes to decode key exchange")
		}
		keyExchange.DiffieHellmanGroup = binary.BigEndian.Uint16(rawData[0:2])
		keyExchange.KeyExchangeData = append(keyExchange.KeyExchangeData, rawData[4:]...)
	}
	return nil
}

// Definition of Identification - Initiator

var _ IKEPayload = &IdentificationInitiator{}

type IdentificationInitiator struct {
	PayloadHeader
	IDType uint8
	IDData []byte
}

func (identification *IdentificationInitiator) Type() IKEPayloadType { return TypeIDi }

func (identification *IdentificationInitiator) Verify() error {
	if len(identification.IDData) == 0 {
		return errors.Wrap(ErrVerify, "identification carries no data")
	}
	return nil
}

func (identification *IdentificationInitiator) marshal() ([]byte, error) {
	identificationData := make([]byte, 4)

	identificationData[0] = identification.IDType
	identificationData = append(identificationData, identification.IDData...)

	return identificationData, nil
}

func (identification *IdentificationInitiator) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if len(rawData) <= 4 {
			return errors.Wrap(ErrDecode, "no sufficient bytes to decode identification")
		}
		identification.IDType = rawData[0]
		identification.IDData = append(identification.IDData, rawData[4:]...)
	}
	return nil
}

// Definition of Identification - Responder

var _ IKEPayload = &IdentificationResponder{}

type IdentificationResponder struct {
	PayloadHeader
	IDType uint8
	IDData []byte
}

func (identification *IdentificationResponder) Type() IKEPayloadType { return TypeIDr }

func (identification *IdentificationResponder) Verify() error {
	if len(identification.IDData) == 0 {
		return errors.Wrap(ErrVerify, "identification carries no data")
	}
	return nil
}

func (identification *IdentificationResponder) marshal() ([]byte, error) {
	identificationData := make([]byte, 4)

	identificationData[0] = identification.IDType
	identificationData = append(identificationData, identification.IDData...)

	return identificationData, nil
}

func (identification *IdentificationResponder) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if len(rawData) <= 4 {
			return errors.Wrap(ErrDecode, "no sufficient bytes to decode identification")
		}
		identification.IDType = rawData[0]
		identification.IDData = append(identification.IDData, rawData[4:]...)
	}
	return nil
}

// Definition of Certificate

var _ IKEPayload = &Certificate{}

type Certificate struct {
	PayloadHeader
	CertificateEncoding uint8
	CertificateData     []byte
}

func (certificate *Certificate) Type() IKEPayloadType { return TypeCERT }

func (certificate *Certificate) Verify() error {
	if len(certificate.CertificateData) == 0 {
		return errors.Wrap(ErrVerify, "certificate carries no data")
	}
	return nil
}

func (certificate *Certificate) marshal() ([]byte, error) {
	certificateData := make([]byte, 1)

	certificateData[0] = certificate.CertificateEncoding
	certificateData = append(certificateData, certificate.CertificateData...)

	return certificateData, nil
}

func (certificate *Certificate) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if len(rawData) <= 1 {
			return errors.Wrap(ErrDecode, "no sufficient bytes to decode certificate")
		}
		certificate.CertificateEncoding = rawData[0]
		certificate.CertificateData = append(certificate.CertificateData, rawData[1:]...)
	}
	return nil
}

// Definition of Certificate Request

var _ IKEPayload = &CertificateRequest{}

type CertificateRequest struct {
	PayloadHeader
	CertificateEncoding    uint8
	CertificationAuthority []byte
}

func (certificateRequest *CertificateRequest) Type() IKEPayloadType { return TypeCERTreq }

// An empty certification authority list is legitimate.
func (certificateRequest *CertificateRequest) Verify() error { return nil }

func (certificateRequest *CertificateRequest) marshal() ([]byte, error) {
	certificateRequestData := make([]byte, 1)

	certificateRequestData[0] = certificateRequest.CertificateEncoding
	certificateRequestData = append(certificateRequestData, certificateRequest.CertificationAuthority...)

	return certificateRequestData, nil
}

func (certificateRequest *CertificateRequest) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		certificateRequest.CertificateEncoding = rawData[0]
		certificateRequest.CertificationAuthority =
			append(certificateRequest.CertificationAuthority, rawData[1:]...)
	}
	return nil
}

// Definition of Authentication

var _ IKEPayload = &Authentication{}

type Authentication struct {
	PayloadHeader
	AuthenticationMethod uint8
	AuthenticationData   []byte
}

func (authentication *Authentication) Type() IKEPayloadType { return TypeAUTH }

func (authentication *Authentication) Verify() error {
	if len(authentication.AuthenticationData) == 0 {
		return errors.Wrap(ErrVerify, "authentication carries no data")
	}
	return nil
}

func (authentication *Authentication) marshal() ([]byte, error) {
	authenticationData := make([]byte, 4)

	authenticationData[0] = authentication.AuthenticationMethod
	authenticationData = append(authenticationData, authentication.AuthenticationData...)

	return authenticationData, nil
}

func (authentication *Authentication) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if len(rawData) <= 4 {
			return errors.Wrap(ErrDecode, "no sufficient bytes to decode authentication")
		}
		authentication.AuthenticationMethod = rawData[0]
		authentication.AuthenticationData = append(authentication.AuthenticationData, rawData[4:]...)
	}
	return nil
}

// Definition of Nonce

var _ IKEPayload = &Nonce{}

type Nonce struct {
	PayloadHeader
	NonceData []byte
}

func (nonce *Nonce) Type() IKEPayloadType { return TypeNiNr }

func (nonce *Nonce) Verify() error {
	if len(nonce.NonceData) < 16 || len(nonce.NonceData) > 256 {
		return errors.Wrapf(ErrVerify, "nonce length %d outside the range of 16 to 256 octets", len(nonce.NonceData))
	}
	return nil
}

func (nonce *Nonce) marshal() ([]byte, error) {
	nonceData := make([]byte, 0)
	nonceData = append(nonceData, nonce.NonceData...)
	return nonceData, nil
}

func (nonce *Nonce) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		nonce.NonceData = append(nonce.NonceData, rawData...)
	}
	return nil
}

// Definition of Notification

var _ IKEPayload = &Notification{}

type Notification struct {
	PayloadHeader
	ProtocolID        uint8
	NotifyMessageType uint16
	SPI               []byte
	NotificationData  []byte
}

func (notification *Notification) Type() IKEPayloadType { return TypeN }

func (notification *Notification) Verify() error {
	if notification.NotifyMessageType == 0 {
		return errors.Wrap(ErrVerify, "notification carries the reserved message type 0")
	}
	if len(notification.SPI) != 0 && len(notification.SPI) != 4 {
		return errors.Wrapf(ErrVerify, "notification SPI size %d is neither 0 nor 4", len(notification.SPI))
	}
	return nil
}

func (notification *Notification) marshal() ([]byte, error) {
	notificationData := make([]byte, 4)

	notificationData[0] = notification.ProtocolID
	notificationData[1] = uint8(len(notification.SPI))
	binary.BigEndian.PutUint16(notificationData[2:4], notification.NotifyMessageType)

	notificationData = append(notificationData, notification.SPI...)
	notificationData = append(notificationData, notification.NotificationData...)

	return notificationData, nil
}

func (notification *Notification) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if err := checkLen(rawData, 4); err != nil {
			return errors.Wrap(err, "decode notification header")
		}
		spiSize := rawData[1]
		if err := checkLen(rawData, 4+int(spiSize)); err != nil {
			return errors.Wrap(err, "decode notification SPI")
		}

		notification.ProtocolID = rawData[0]
		notification.NotifyMessageType = binary.BigEndian.Uint16(rawData[2:4])
		notification.SPI = append(notification.SPI, rawData[4:4+spiSize]...)
		notification.NotificationData = append(notification.NotificationData, rawData[4+spiSize:]...)
	}
	return nil
}

// Definition of Delete

var _ IKEPayload = &Delete{}

type Delete struct {
	PayloadHeader
	ProtocolID  uint8
	SPISize     uint8
	NumberOfSPI uint16
	SPIs        []uint32
}

func (del *Delete) Type() IKEPayloadType { return TypeD }

func (del *Delete) Verify() error {
	switch del.ProtocolID {
	case TypeIKE:
		if del.SPISize != 0 || del.NumberOfSPI != 0 {
			return errors.Wrap(ErrVerify, "delete for the IKE SA must carry no SPI")
		}
	case TypeAH, TypeESP:
		if del.SPISize != 4 {
			return errors.Wrapf(ErrVerify, "delete SPI size %d invalid for protocol %d", del.SPISize, del.ProtocolID)
		}
	default:
		return errors.Wrapf(ErrVerify, "delete carries unknown protocol id %d", del.ProtocolID)
	}
	if len(del.SPIs) != int(del.NumberOfSPI) {
		return errors.Wrapf(ErrVerify, "delete carries %d SPIs but declares %d", len(del.SPIs), del.NumberOfSPI)
	}
	return nil
}

func (del *Delete) marshal() ([]byte, error) {
	if len(del.SPIs) != int(del.NumberOfSPI) {
		return nil, errors.Errorf("number of SPIs not consistent with number specified in header")
	}

	deleteData := make([]byte, 4)

	deleteData[0] = del.ProtocolID
	deleteData[1] = del.SPISize
	binary.BigEndian.PutUint16(deleteData[2:4], del.NumberOfSPI)

	for _, spi := range del.SPIs {
		spiData := make([]byte, 4)
		binary.BigEndian.PutUint32(spiData, spi)
		deleteData = append(deleteData, spiData...)
	}

	return deleteData, nil
}

func (del *Delete) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if err := checkLen(rawData, 4); err != nil {
			return errors.Wrap(err, "decode delete header")
		}

		spiSize := rawData[1]
		numberOfSPI := binary.BigEndian.Uint16(rawData[2:4])
		if err := checkLen(rawData, 4+int(spiSize)*int(numberOfSPI)); err != nil {
			return errors.Wrap(err, "decode delete SPI list")
		}
		if numberOfSPI > 0 && spiSize != 4 {
			return errors.Wrapf(ErrDecode, "unsupported SPI size %d in delete", spiSize)
		}

		del.ProtocolID = rawData[0]
		del.SPISize = spiSize
		del.NumberOfSPI = numberOfSPI

		rawData = rawData[4:]
		for i := 0; i < int(numberOfSPI); i++ {
			del.SPIs = append(del.SPIs, binary.BigEndian.Uint32(rawData[i*4:i*4+4]))
		}
	}
	return nil
}

// Definition of Vendor ID

var _ IKEPayload = &VendorID{}

type VendorID struct {
	PayloadHeader
	VendorIDData []byte
}

func (vendorID *VendorID) Type() IKEPayloadType { return TypeV }

func (vendorID *VendorID) Verify() error { return nil }

func (vendorID *VendorID) marshal() ([]byte, error) {
	return vendorID.VendorIDData, nil
}

func (vendorID *VendorID) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		vendorID.VendorIDData = append(vendorID.VendorIDData, rawData...)
	}
	return nil
}

// Definition of Traffic Selector - Initiator

var _ IKEPayload = &TrafficSelectorInitiator{}

type TrafficSelectorInitiator struct {
	PayloadHeader
	TrafficSelectors IndividualTrafficSelectorContainer
}

type IndividualTrafficSelectorContainer []*IndividualTrafficSelector

type IndividualTrafficSelector struct {
	TSType       uint8
	IPProtocolID uint8
	StartPort    uint16
	EndPort      uint16
	StartAddress []byte
	EndAddress   []byte
}

func (trafficSelector *TrafficSelectorInitiator) Type() IKEPayloadType { return TypeTSi }

func (trafficSelector *TrafficSelectorInitiator) Verify() error {
	return verifyTrafficSelectors(trafficSelector.TrafficSelectors)
}

func (trafficSelector *TrafficSelectorInitiator) marshal() ([]byte, error) {
	return marshalTrafficSelectors(trafficSelector.TrafficSelectors)
}

func (trafficSelector *TrafficSelectorInitiator) unmarshal(rawData []byte) error {
	selectors, err := unmarshalTrafficSelectors(rawData)
	if err != nil {
		return err
	}
	trafficSelector.TrafficSelectors = selectors
	return nil
}

// Definition of Traffic Selector - Responder

var _ IKEPayload = &TrafficSelectorResponder{}

type TrafficSelectorResponder struct {
	PayloadHeader
	TrafficSelectors IndividualTrafficSelectorContainer
}

func (trafficSelector *TrafficSelectorResponder) Type() IKEPayloadType { return TypeTSr }

func (trafficSelector *TrafficSelectorResponder) Verify() error {
	return verifyTrafficSelectors(trafficSelector.TrafficSelectors)
}

func (trafficSelector *TrafficSelectorResponder) marshal() ([]byte, error) {
	return marshalTrafficSelectors(trafficSelector.TrafficSelectors)
}

func (trafficSelector *TrafficSelectorResponder) unmarshal(rawData []byte) error {
	selectors, err := unmarshalTrafficSelectors(rawData)
	if err != nil {
		return err
	}
	trafficSelector.TrafficSelectors = selectors
	return nil
}

func verifyTrafficSelectors(selectors IndividualTrafficSelectorContainer) error {
	if len(selectors) == 0 {
		return errors.Wrap(ErrVerify, "traffic selector payload carries no selector")
	}
	for _, selector := range selectors {
		if selector.StartPort > selector.EndPort {
			return errors.Wrapf(ErrVerify, "selector start port %d greater than end port %d",
				selector.StartPort, selector.EndPort)
		}
	}
	return nil
}

func marshalTrafficSelectors(selectors IndividualTrafficSelectorContainer) ([]byte, error) {
	if len(selectors) == 0 {
		return nil, errors.Errorf("contains no traffic selector for marshalling message")
	}

	trafficSelectorData := make([]byte, 4)
	trafficSelectorData[0] = uint8(len(selectors))

	for _, individualSelector := range selectors {
		switch individualSelector.TSType {
		case TS_IPV4_ADDR_RANGE:
			if len(individualSelector.StartAddress) != 4 || len(individualSelector.EndAddress) != 4 {
				return nil, errors.Errorf("start or end address is not an IPv4 address")
			}
		case TS_IPV6_ADDR_RANGE:
			if len(individualSelector.StartAddress) != 16 || len(individualSelector.EndAddress) != 16 {
				return nil, errors.Errorf("start or end address is not an IPv6 address")
			}
		default:
			return nil, errors.Errorf("unsupported traffic selector type %d", individualSelector.TSType)
		}

		individualSelectorData := make([]byte, 8)
		individualSelectorData[0] = individualSelector.TSType
		individualSelectorData[1] = individualSelector.IPProtocolID
		binary.BigEndian.PutUint16(individualSelectorData[4:6], individualSelector.StartPort)
		binary.BigEndian.PutUint16(individualSelectorData[6:8], individualSelector.EndPort)

		individualSelectorData = append(individualSelectorData, individualSelector.StartAddress...)
		individualSelectorData = append(individualSelectorData, individualSelector.EndAddress...)

		binary.BigEndian.PutUint16(individualSelectorData[2:4], uint16(len(individualSelectorData)))
		trafficSelectorData = append(trafficSelectorData, individualSelectorData...)
	}

	return trafficSelectorData, nil
}

func unmarshalTrafficSelectors(rawData []byte) (IndividualTrafficSelectorContainer, error) {
	var selectors IndividualTrafficSelectorContainer

	if len(rawData) == 0 {
		return nil, nil
	}

	if err := checkLen(rawData, 4); err != nil {
		return nil, errors.Wrap(err, "decode traffic selector header")
	}
	numberOfSelectors := rawData[0]
	rawData = rawData[4:]

	for ; numberOfSelectors > 0; numberOfSelectors-- {
		if err := checkLen(rawData, 8); err != nil {
			return nil, errors.Wrap(err, "decode individual traffic selector header")
		}

		tsType := rawData[0]
		selectorLength := binary.BigEndian.Uint16(rawData[2:4])

		var expectedLength uint16
		switch tsType {
		case TS_IPV4_ADDR_RANGE:
			expectedLength = 16
		case TS_IPV6_ADDR_RANGE:
			expectedLength = 40
		default:
			return nil, errors.Wrapf(ErrDecode, "unsupported traffic selector type %d", tsType)
		}

		if selectorLength != expectedLength {
			return nil, errors.Wrapf(ErrDecode, "illegal traffic selector length %d", selectorLength)
		}
		if err := checkLen(rawData, int(expectedLength)); err != nil {
			return nil, errors.Wrap(err, "decode individual traffic selector body")
		}

		addressLength := (int(expectedLength) - 8) / 2
		individualSelector := &IndividualTrafficSelector{
			TSType:       tsType,
			IPProtocolID: rawData[1],
			StartPort:    binary.BigEndian.Uint16(rawData[4:6]),
			EndPort:      binary.BigEndian.Uint16(rawData[6:8]),
		}
		individualSelector.StartAddress =
			append(individualSelector.StartAddress, rawData[8:8+addressLength]...)
		individualSelector.EndAddress =
			append(individualSelector.EndAddress, rawData[8+addressLength:expectedLength]...)

		selectors = append(selectors, individualSelector)
		rawData = rawData[expectedLength:]
	}

	return selectors, nil
}

// Definition of Encrypted

var _ IKEPayload = &Encrypted{}

// Encrypted is carried for composing messages to be sealed elsewhere. Its
// next type names its first inner payload, not a chain successor.
type Encrypted struct {
	PayloadHeader
	EncryptedData []byte
}

func (encrypted *Encrypted) Type() IKEPayloadType { return TypeSK }

func (encrypted *Encrypted) Verify() error {
	if len(encrypted.EncryptedData) == 0 {
		return errors.Wrap(ErrVerify, "encrypted payload carries no data")
	}
	return nil
}

func (encrypted *Encrypted) marshal() ([]byte, error) {
	if len(encrypted.EncryptedData) == 0 {
		return nil, errors.Errorf("the encrypted data is empty")
	}
	return encrypted.EncryptedData, nil
}

func (encrypted *Encrypted) unmarshal(rawData []byte) error {
	encrypted.EncryptedData = append(encrypted.EncryptedData, rawData...)
	return nil
}

// Definition of Configuration

var _ IKEPayload = &Configuration{}

type Configuration struct {
	PayloadHeader
	ConfigurationType      uint8
	ConfigurationAttribute ConfigurationAttributeContainer
}

type ConfigurationAttributeContainer []*IndividualConfigurationAttribute

type IndividualConfigurationAttribute struct {
	Type  uint16
	Value []byte
}

func (configuration *Configuration) Type() IKEPayloadType { return TypeCP }

func (configuration *Configuration) Verify() error { return nil }

func (configuration *Configuration) marshal() ([]byte, error) {
	configurationData := make([]byte, 4)

	configurationData[0] = configuration.ConfigurationType

	for _, attribute := range configuration.ConfigurationAttribute {
		individualConfigurationAttributeData := make([]byte, 4)

		binary.BigEndian.PutUint16(individualConfigurationAttributeData[0:2], (attribute.Type & 0x7fff))
		binary.BigEndian.PutUint16(individualConfigurationAttributeData[2:4], uint16(len(attribute.Value)))
		individualConfigurationAttributeData = append(individualConfigurationAttributeData, attribute.Value...)

		configurationData = append(configurationData, individualConfigurationAttributeData...)
	}

	return configurationData, nil
}

func (configuration *Configuration) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if err := checkLen(rawData, 4); err != nil {
			return errors.Wrap(err, "decode configuration header")
		}
		configuration.ConfigurationType = rawData[0]

		configurationAttributeData := rawData[4:]

		for len(configurationAttributeData) > 0 {
			if err := checkLen(configurationAttributeData, 4); err != nil {
				return errors.Wrap(err, "decode configuration attribute header")
			}
			attributeLength := binary.BigEndian.Uint16(configurationAttributeData[2:4])
			if err := checkLen(configurationAttributeData, 4+int(attributeLength)); err != nil {
				return errors.Wrap(err, "decode configuration attribute value")
			}

			individualConfigurationAttribute := new(IndividualConfigurationAttribute)
			individualConfigurationAttribute.Type =
				binary.BigEndian.Uint16(configurationAttributeData[0:2]) & 0x7fff
			individualConfigurationAttribute.Value = append(individualConfigurationAttribute.Value,
				configurationAttributeData[4:4+attributeLength]...)

			configuration.ConfigurationAttribute =
				append(configuration.ConfigurationAttribute, individualConfigurationAttribute)

			configurationAttributeData = configurationAttributeData[4+attributeLength:]
		}
	}
	return nil
}

// Definition of EAP

var _ IKEPayload = &EAP{}

type EAP struct {
	PayloadHeader
	Code        uint8
	Identifier  uint8
	EAPTypeData EAPTypeDataContainer
}

func (eap *EAP) Type() IKEPayloadType { return TypeEAP }

func (eap *EAP) Verify() error {
	if eap.Code < EAPCodeRequest || eap.Code > EAPCodeFailure {
		return errors.Wrapf(ErrVerify, "unknown EAP code %d", eap.Code)
	}
	if (eap.Code == EAPCodeSuccess || eap.Code == EAPCodeFailure) && len(eap.EAPTypeData) > 0 {
		return errors.Wrap(ErrVerify, "EAP success and failure must carry no type data")
	}
	return nil
}

func (eap *EAP) marshal() ([]byte, error) {
	eapData := make([]byte, 4)

	eapData[0] = eap.Code
	eapData[1] = eap.Identifier

	if len(eap.EAPTypeData) > 0 {
		eapTypeData, err := eap.EAPTypeData[0].marshal()
		if err != nil {
			return nil, errors.Wrapf(err, "EAP: marshal EAP type data")
		}
		eapData = append(eapData, eapTypeData...)
	}

	binary.BigEndian.PutUint16(eapData[2:4], uint16(len(eapData)))

	return eapData, nil
}

func (eap *EAP) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if err := checkLen(rawData, 4); err != nil {
			return errors.Wrap(err, "decode EAP header")
		}
		eapPayloadLength := binary.BigEndian.Uint16(rawData[2:4])
		if eapPayloadLength < 4 {
			return errors.Wrap(ErrDecode, "EAP: payload length specified in the header is too small")
		}
		if len(rawData) != int(eapPayloadLength) {
			return errors.Wrap(ErrDecode, "EAP: received payload length not matches the length specified in header")
		}

		eap.Code = rawData[0]
		eap.Identifier = rawData[1]

		// EAP Success or Failure
		if eapPayloadLength == 4 {
			return nil
		}

		eapType := rawData[4]
		var eapTypeData EAPTypeFormat

		switch EAPType(eapType) {
		case EAPTypeIdentity:
			eapTypeData = new(EAPIdentity)
		case EAPTypeNotification:
			eapTypeData = new(EAPNotification)
		case EAPTypeNak:
			eapTypeData = new(EAPNak)
		case EAPTypeExpanded:
			eapTypeData = new(EAPExpanded)
		default:
			return errors.Wrapf(ErrDecode, "EAP: type %d not supported", eapType)
		}

		if err := eapTypeData.unmarshal(rawData[4:]); err != nil {
			return errors.Wrapf(err, "EAP: unmarshal EAP type data")
		}

		eap.EAPTypeData = append(eap.EAPTypeData, eapTypeData)
	}
	return nil
}

type EAPTypeDataContainer []EAPTypeFormat

type EAPTypeFormat interface {
	// Type specifies the EAP types
	Type() EAPType

	// Called by EAP.marshal() or EAP.unmarshal()
	marshal() ([]byte, error)
	unmarshal(rawData []byte) error
}

// Definition of EAP Identity

var _ EAPTypeFormat = &EAPIdentity{}

type EAPIdentity struct {
	IdentityData []byte
}

func (eapIdentity *EAPIdentity) Type() EAPType { return EAPTypeIdentity }

func (eapIdentity *EAPIdentity) marshal() ([]byte, error) {
	if len(eapIdentity.IdentityData) == 0 {
		return nil, errors.Errorf("EAPIdentity: the identity data is empty")
	}

	eapIdentityData := []byte{byte(EAPTypeIdentity)}
	eapIdentityData = append(eapIdentityData, eapIdentity.IdentityData...)

	return eapIdentityData, nil
}

func (eapIdentity *EAPIdentity) unmarshal(rawData []byte) error {
	if len(rawData) > 1 {
		eapIdentity.IdentityData = append(eapIdentity.IdentityData, rawData[1:]...)
	}
	return nil
}

// Definition of EAP Notification

var _ EAPTypeFormat = &EAPNotification{}

type EAPNotification struct {
	NotificationData []byte
}

func (eapNotification *EAPNotification) Type() EAPType { return EAPTypeNotification }

func (eapNotification *EAPNotification) marshal() ([]byte, error) {
	if len(eapNotification.NotificationData) == 0 {
		return nil, errors.Errorf("EAPNotification: the notification data is empty")
	}

	eapNotificationData := []byte{byte(EAPTypeNotification)}
	eapNotificationData = append(eapNotificationData, eapNotification.NotificationData...)

	return eapNotificationData, nil
}

func (eapNotification *EAPNotification) unmarshal(rawData []byte) error {
	if len(rawData) > 1 {
		eapNotification.NotificationData = append(eapNotification.NotificationData, rawData[1:]...)
	}
	return nil
}

// Definition of EAP Nak

var _ EAPTypeFormat = &EAPNak{}

type EAPNak struct {
	NakData []byte
}

func (eapNak *EAPNak) Type() EAPType { return EAPTypeNak }

func (eapNak *EAPNak) marshal() ([]byte, error) {
	if len(eapNak.NakData) == 0 {
		return nil, errors.Errorf("EAPNak: the nak data is empty")
	}

	eapNakData := []byte{byte(EAPTypeNak)}
	eapNakData = append(eapNakData, eapNak.NakData...)

	return eapNakData, nil
}

func (eapNak *EAPNak) unmarshal(rawData []byte) error {
	if len(rawData) > 1 {
		eapNak.NakData = append(eapNak.NakData, rawData[1:]...)
	}
	return nil
}

// Definition of EAP expanded

var _ EAPTypeFormat = &EAPExpanded{}

type EAPExpanded struct {
	VendorID   uint32
	VendorType uint32
	VendorData []byte
}

func (eapExpanded *EAPExpanded) Type() EAPType { return EAPTypeExpanded }

func (eapExpanded *EAPExpanded) marshal() ([]byte, error) {
	eapExpandedData := make([]byte, 8)

	vendorID := eapExpanded.VendorID & 0x00ffffff
	typeAndVendorID := (uint32(EAPTypeExpanded)<<24 | vendorID)

	binary.BigEndian.PutUint32(eapExpandedData[0:4], typeAndVendorID)
	binary.BigEndian.PutUint32(eapExpandedData[4:8], eapExpanded.VendorType)

	if len(eapExpanded.VendorData) == 0 {
		return eapExpandedData, nil
	}
	eapExpandedData = append(eapExpandedData, eapExpanded.VendorData...)

	return eapExpandedData, nil
}

func (eapExpanded *EAPExpanded) unmarshal(rawData []byte) error {
	if len(rawData) > 0 {
		if err := checkLen(rawData, 8); err != nil {
			return errors.Wrap(err, "decode EAP expanded header")
		}

		typeAndVendorID := binary.BigEndian.Uint32(rawData[0:4])
		eapExpanded.VendorID = typeAndVendorID & 0x00ffffff
		eapExpanded.VendorType = binary.BigEndian.Uint32(rawData[4:8])

		if len(rawData) > 8 {
			eapExpanded.VendorData = append(eapExpanded.VendorData, rawData[8:]...)
		}
	}
	return nil
}
