package message

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecurityAssociationCodec(t *testing.T) {
	securityAssociation := &SecurityAssociation{}

	proposal := securityAssociation.Proposals.BuildProposal(1, TypeIKE, nil)
	var attributeType uint16 = AttributeTypeKeyLength
	var keyLength128 uint16 = 128
	var keyLength192 uint16 = 192
	proposal.EncryptionAlgorithm.BuildTransform(
		TypeEncryptionAlgorithm, ENCR_AES_CBC, &attributeType, &keyLength128, nil)
	proposal.EncryptionAlgorithm.BuildTransform(
		TypeEncryptionAlgorithm, ENCR_AES_CBC, &attributeType, &keyLength192, nil)
	proposal.IntegrityAlgorithm.BuildTransform(
		TypeIntegrityAlgorithm, AUTH_HMAC_SHA1_96, nil, nil, nil)

	second := securityAssociation.Proposals.BuildProposal(2, TypeESP, []byte{0x01, 0x02, 0x03, 0x04})
	second.EncryptionAlgorithm.BuildTransform(
		TypeEncryptionAlgorithm, ENCR_AES_CBC, &attributeType, nil, []byte{0x00, 0x80})
	second.ExtendedSequenceNumbers.BuildTransform(
		TypeExtendedSequenceNumbers, ESN_DISABLE, nil, nil, nil)

	data, err := securityAssociation.marshal()
	require.NoError(t, err)

	decoded := &SecurityAssociation{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, securityAssociation.Proposals, decoded.Proposals)

	remarshaled, err := decoded.marshal()
	require.NoError(t, err)
	require.Equal(t, data, remarshaled)
}

func TestSecurityAssociationRejectsCorruptTransform(t *testing.T) {
	securityAssociation := &SecurityAssociation{}
	proposal := securityAssociation.Proposals.BuildProposal(1, TypeIKE, nil)
	proposal.IntegrityAlgorithm.BuildTransform(TypeIntegrityAlgorithm, AUTH_HMAC_SHA1_96, nil, nil, nil)

	data, err := securityAssociation.marshal()
	require.NoError(t, err)

	corrupted := append([]byte(nil), data...)
	// transform length runs past the proposal boundary
	binary.BigEndian.PutUint16(corrupted[10:12], 999)

	decoded := &SecurityAssociation{}
	require.ErrorIs(t, decoded.unmarshal(corrupted), ErrDecode)
}

func TestSecurityAssociationRejectsUnknownTransformType(t *testing.T) {
	securityAssociation := &SecurityAssociation{}
	proposal := securityAssociation.Proposals.BuildProposal(1, TypeIKE, nil)
	proposal.IntegrityAlgorithm.BuildTransform(TypeIntegrityAlgorithm, AUTH_HMAC_SHA1_96, nil, nil, nil)

	data, err := securityAssociation.marshal()
	require.NoError(t, err)

	corrupted := append([]byte(nil), data...)
	corrupted[12] = 99 // transform type

	decoded := &SecurityAssociation{}
	require.ErrorIs(t, decoded.unmarshal(corrupted), ErrDecode)
}

func TestTrafficSelectorCodec(t *testing.T) {
	trafficSelector := &TrafficSelectorInitiator{}
	trafficSelector.TrafficSelectors.BuildIndividualTrafficSelector(
		TS_IPV4_ADDR_RANGE, IPProtocolTCP, 0, 65535,
		[]byte{10, 0, 0, 1}, []byte{10, 0, 0, 254})
	trafficSelector.TrafficSelectors.BuildIndividualTrafficSelector(
		TS_IPV6_ADDR_RANGE, IPProtocolAll, 1024, 2048,
		net.ParseIP("2001:db8::1"), net.ParseIP("2001:db8::ff"))

	data, err := trafficSelector.marshal()
	require.NoError(t, err)

	decoded := &TrafficSelectorInitiator{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, trafficSelector.TrafficSelectors, decoded.TrafficSelectors)
}

func TestTrafficSelectorMarshalRejectsBadAddress(t *testing.T) {
	trafficSelector := &TrafficSelectorResponder{}
	trafficSelector.TrafficSelectors.BuildIndividualTrafficSelector(
		TS_IPV4_ADDR_RANGE, IPProtocolTCP, 0, 65535,
		[]byte{10, 0, 0, 1}, net.ParseIP("2001:db8::1"))

	_, err := trafficSelector.marshal()
	require.Error(t, err)
}

func TestTrafficSelectorMarshalRejectsEmpty(t *testing.T) {
	trafficSelector := &TrafficSelectorInitiator{}
	_, err := trafficSelector.marshal()
	require.Error(t, err)
}

func TestNotificationCodec(t *testing.T) {
	notification := &Notification{
		ProtocolID:        TypeESP,
		NotifyMessageType: REKEY_SA,
		SPI:               []byte{0x0A, 0x0B, 0x0C, 0x0D},
		NotificationData:  []byte{0x01, 0x02},
	}

	data, err := notification.marshal()
	require.NoError(t, err)

	decoded := &Notification{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, notification.ProtocolID, decoded.ProtocolID)
	require.Equal(t, notification.NotifyMessageType, decoded.NotifyMessageType)
	require.Equal(t, notification.SPI, decoded.SPI)
	require.Equal(t, notification.NotificationData, decoded.NotificationData)
}

func TestNotificationRejectsTruncatedSPI(t *testing.T) {
	raw := []byte{uint8(TypeESP), 8, 0x40, 0x09, 0x0A, 0x0B}
	decoded := &Notification{}
	require.ErrorIs(t, decoded.unmarshal(raw), ErrDecode)
}

func TestDeleteCodec(t *testing.T) {
	deletePayload := &Delete{
		ProtocolID:  TypeESP,
		SPISize:     4,
		NumberOfSPI: 2,
		SPIs:        []uint32{0x01020304, 0x05060708},
	}

	data, err := deletePayload.marshal()
	require.NoError(t, err)

	decoded := &Delete{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, deletePayload.ProtocolID, decoded.ProtocolID)
	require.Equal(t, deletePayload.SPIs, decoded.SPIs)

	ikeDelete := &Delete{ProtocolID: TypeIKE}
	data, err = ikeDelete.marshal()
	require.NoError(t, err)

	decoded = &Delete{}
	require.NoError(t, decoded.unmarshal(data))
	require.Empty(t, decoded.SPIs)
}

func TestDeleteMarshalRejectsInconsistentSPICount(t *testing.T) {
	deletePayload := &Delete{
		ProtocolID:  TypeESP,
		SPISize:     4,
		NumberOfSPI: 3,
		SPIs:        []uint32{1},
	}
	_, err := deletePayload.marshal()
	require.Error(t, err)
}

func TestConfigurationCodec(t *testing.T) {
	configuration := &Configuration{ConfigurationType: CFG_REQUEST}
	configuration.ConfigurationAttribute.BuildConfigurationAttribute(INTERNAL_IP4_ADDRESS, []byte{10, 0, 0, 5})
	configuration.ConfigurationAttribute.BuildConfigurationAttribute(INTERNAL_IP4_NETMASK, []byte{255, 255, 255, 0})

	data, err := configuration.marshal()
	require.NoError(t, err)

	decoded := &Configuration{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, configuration.ConfigurationType, decoded.ConfigurationType)
	require.Equal(t, configuration.ConfigurationAttribute, decoded.ConfigurationAttribute)
}

func TestConfigurationRejectsTruncatedAttribute(t *testing.T) {
	raw := []byte{CFG_REQUEST, 0, 0, 0, 0x00, 0x01, 0x00, 0x08, 0x0A}
	decoded := &Configuration{}
	require.ErrorIs(t, decoded.unmarshal(raw), ErrDecode)
}

func TestEAPCodec(t *testing.T) {
	eap := &EAP{Code: EAPCodeResponse, Identifier: 9}
	eap.EAPTypeData.BuildEAPExpanded(26838, 1, []byte{0x0A, 0x0B, 0x0C})

	data, err := eap.marshal()
	require.NoError(t, err)

	decoded := &EAP{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, eap.Code, decoded.Code)
	require.Equal(t, eap.Identifier, decoded.Identifier)
	require.Equal(t, eap.EAPTypeData, decoded.EAPTypeData)
}

func TestEAPSuccessCodec(t *testing.T) {
	var payloads IKEPayloadContainer
	payloads.BuildEAPSuccess(3)

	data, err := payloads[0].marshal()
	require.NoError(t, err)
	require.Len(t, data, 4)

	decoded := &EAP{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, uint8(EAPCodeSuccess), decoded.Code)
	require.Empty(t, decoded.EAPTypeData)
}

func TestEAPRejectsLengthMismatch(t *testing.T) {
	eap := &EAP{Code: EAPCodeRequest, Identifier: 5}
	eap.EAPTypeData = append(eap.EAPTypeData, &EAPIdentity{IdentityData: []byte("user@example.org")})

	data, err := eap.marshal()
	require.NoError(t, err)

	corrupted := append(data, 0xFF)
	decoded := &EAP{}
	require.ErrorIs(t, decoded.unmarshal(corrupted), ErrDecode)
}

func TestKeyExchangeCodec(t *testing.T) {
	keyExchange := &KeyExchange{
		DiffieHellmanGroup: DH_2048_BIT_MODP,
		KeyExchangeData:    bytes.Repeat([]byte{0x5A}, 256),
	}

	data, err := keyExchange.marshal()
	require.NoError(t, err)

	decoded := &KeyExchange{}
	require.NoError(t, decoded.unmarshal(data))
	require.Equal(t, keyExchange.DiffieHellmanGroup, decoded.DiffieHellmanGroup)
	require.Equal(t, keyExchange.KeyExchangeData, decoded.KeyExchangeData)
}

func TestParsePayloadRejectsCorruptLengths(t *testing.T) {
	// generic header declaring more bytes than available
	parser := NewParser([]byte{0x00, 0x00, 0x00, 0x14, 0x01, 0x02, 0x03})
	_, err := parser.ParsePayload(TypeNiNr)
	require.ErrorIs(t, err, ErrDecode)

	// length below the generic header size
	parser = NewParser([]byte{0x00, 0x00, 0x00, 0x03})
	_, err = parser.ParsePayload(TypeNiNr)
	require.ErrorIs(t, err, ErrDecode)

	// no room for the generic header at all
	parser = NewParser([]byte{0x00, 0x00})
	_, err = parser.ParsePayload(TypeNiNr)
	require.ErrorIs(t, err, ErrDecode)
}

func TestParserGeneratorKeepCriticalBit(t *testing.T) {
	vendorID := &VendorID{VendorIDData: []byte{0xCA, 0xFE}}
	vendorID.Critical = true

	generator := NewGenerator()
	require.NoError(t, generator.GeneratePayload(vendorID))
	data := generator.WriteToChunk()
	require.Equal(t, uint8(0x80), data[1]&0x80)

	parser := NewParser(data)
	decoded, err := parser.ParsePayload(TypeV)
	require.NoError(t, err)
	require.True(t, decoded.header().Critical)
}

func TestPayloadVerify(t *testing.T) {
	tests := []struct {
		name    string
		payload IKEPayload
		wantErr bool
	}{
		{
			name:    "nonce in range",
			payload: &Nonce{NonceData: bytes.Repeat([]byte{1}, 32)},
		},
		{
			name:    "nonce too short",
			payload: &Nonce{NonceData: bytes.Repeat([]byte{1}, 8)},
			wantErr: true,
		},
		{
			name:    "nonce too long",
			payload: &Nonce{NonceData: bytes.Repeat([]byte{1}, 300)},
			wantErr: true,
		},
		{
			name:    "security association without proposal",
			payload: &SecurityAssociation{},
			wantErr: true,
		},
		{
			name: "proposal without transform",
			payload: &SecurityAssociation{
				Proposals: ProposalContainer{{ProposalNumber: 1, ProtocolID: TypeIKE}},
			},
			wantErr: true,
		},
		{
			name:    "key exchange without data",
			payload: &KeyExchange{DiffieHellmanGroup: DH_2048_BIT_MODP},
			wantErr: true,
		},
		{
			name:    "notification with reserved message type",
			payload: &Notification{ProtocolID: TypeIKE},
			wantErr: true,
		},
		{
			name: "notification with bad SPI size",
			payload: &Notification{
				NotifyMessageType: REKEY_SA,
				SPI:               []byte{1, 2, 3},
			},
			wantErr: true,
		},
		{
			name:    "delete for the IKE SA with SPIs",
			payload: &Delete{ProtocolID: TypeIKE, SPISize: 4, NumberOfSPI: 1, SPIs: []uint32{1}},
			wantErr: true,
		},
		{
			name:    "delete for ESP",
			payload: &Delete{ProtocolID: TypeESP, SPISize: 4, NumberOfSPI: 1, SPIs: []uint32{1}},
		},
		{
			name:    "traffic selector without entries",
			payload: &TrafficSelectorInitiator{},
			wantErr: true,
		},
		{
			name: "traffic selector with inverted port range",
			payload: &TrafficSelectorResponder{
				TrafficSelectors: IndividualTrafficSelectorContainer{
					{TSType: TS_IPV4_ADDR_RANGE, StartPort: 2000, EndPort: 1000},
				},
			},
			wantErr: true,
		},
		{
			name:    "EAP with unknown code",
			payload: &EAP{Code: 9},
			wantErr: true,
		},
		{
			name:    "empty vendor id",
			payload: &VendorID{},
		},
		{
			name:    "certificate request without authority list",
			payload: &CertificateRequest{CertificateEncoding: X509CertificateSignature},
		},
		{
			name:    "encrypted without data",
			payload: &Encrypted{},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Verify()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrVerify)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
