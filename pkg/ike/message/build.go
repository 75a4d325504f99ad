package message

// Build helpers append ready-made payloads to a container. They cover the
// outbound side of every payload variant this package decodes.

func (container *IKEPayloadContainer) BuildNotification(
	protocolID uint8, notifyMessageType uint16, spi []byte, notificationData []byte,
) {
	notification := new(Notification)
	notification.ProtocolID = protocolID
	notification.NotifyMessageType = notifyMessageType
	notification.SPI = append(notification.SPI, spi...)
	notification.NotificationData = append(notification.NotificationData, notificationData...)
	*container = append(*container, notification)
}

func (container *IKEPayloadContainer) BuildCertificate(certificateEncode uint8, certificateData []byte) {
	certificate := new(Certificate)
	certificate.CertificateEncoding = certificateEncode
	certificate.CertificateData = append(certificate.CertificateData, certificateData...)
	*container = append(*container, certificate)
}

func (container *IKEPayloadContainer) BuildCertificateRequest(
	certificateEncode uint8, certificationAuthority []byte,
) {
	certificateRequest := new(CertificateRequest)
	certificateRequest.CertificateEncoding = certificateEncode
	certificateRequest.CertificationAuthority =
		append(certificateRequest.CertificationAuthority, certificationAuthority...)
	*container = append(*container, certificateRequest)
}

func (container *IKEPayloadContainer) BuildEncrypted(nextPayload IKEPayloadType, rawData []byte) *Encrypted {
	encrypted := new(Encrypted)
	encrypted.SetNextType(nextPayload)
	encrypted.EncryptedData = append(encrypted.EncryptedData, rawData...)
	*container = append(*container, encrypted)
	return encrypted
}

func (container *IKEPayloadContainer) BuildKeyExchange(diffiehellmanGroup uint16, keyExchangeData []byte) {
	keyExchange := new(KeyExchange)
	keyExchange.DiffieHellmanGroup = diffiehellmanGroup
	keyExchange.KeyExchangeData = append(keyExchange.KeyExchangeData, keyExchangeData...)
	*container = append(*container, keyExchange)
}

func (container *IKEPayloadContainer) BuildIdentificationInitiator(idType uint8, idData []byte) {
	identification := new(IdentificationInitiator)
	identification.IDType = idType
	identification.IDData = append(identification.IDData, idData...)
	*container = append(*container, identification)
}

func (container *IKEPayloadContainer) BuildIdentificationResponder(idType uint8, idData []byte) {
	identification := new(IdentificationResponder)
	identification.IDType = idType
	identification.IDData = append(identification.IDData, idData...)
	*container = append(*container, identification)
}

func (container *IKEPayloadContainer) BuildAuthentication(authenticationMethod uint8, authenticationData []byte) {
	authentication := new(Authentication)
	authentication.AuthenticationMethod = authenticationMethod
	authentication.AuthenticationData = append(authentication.AuthenticationData, authenticationData...)
	*container = append(*container, authentication)
}

func (container *IKEPayloadContainer) BuildConfiguration(configurationType uint8) *Configuration {
	configuration := new(Configuration)
	configuration.ConfigurationType = configurationType
	*container = append(*container, configuration)
	return configuration
}

func (container *ConfigurationAttributeContainer) BuildConfigurationAttribute(
	attributeType uint16, attributeValue []byte,
) {
	configurationAttribute := new(IndividualConfigurationAttribute)
	configurationAttribute.Type = attributeType
	configurationAttribute.Value = append(configurationAttribute.Value, attributeValue...)
	*container = append(*container, configurationAttribute)
}

func (container *IKEPayloadContainer) BuildNonce(nonceData []byte) {
	nonce := new(Nonce)
	nonce.NonceData = append(nonce.NonceData, nonceData...)
	*container = append(*container, nonce)
}

func (container *IKEPayloadContainer) BuildVendorID(vendorIDData []byte) {
	vendorID := new(VendorID)
	vendorID.VendorIDData = append(vendorID.VendorIDData, vendorIDData...)
	*container = append(*container, vendorID)
}

func (container *IKEPayloadContainer) BuildTrafficSelectorInitiator() *TrafficSelectorInitiator {
	trafficSelector := new(TrafficSelectorInitiator)
	*container = append(*container, trafficSelector)
	return trafficSelector
}

func (container *IKEPayloadContainer) BuildTrafficSelectorResponder() *TrafficSelectorResponder {
	trafficSelector := new(TrafficSelectorResponder)
	*container = append(*container, trafficSelector)
	return trafficSelector
}

func (container *IndividualTrafficSelectorContainer) BuildIndividualTrafficSelector(
	tsType uint8, ipProtocolID uint8, startPort uint16, endPort uint16, startAddr []byte, endAddr []byte,
) {
	individualSelector := new(IndividualTrafficSelector)
	individualSelector.TSType = tsType
	individualSelector.IPProtocolID = ipProtocolID
	individualSelector.StartPort = startPort
	individualSelector.EndPort = endPort
	individualSelector.StartAddress = append(individualSelector.StartAddress, startAddr...)
	individualSelector.EndAddress = append(individualSelector.EndAddress, endAddr...)
	*container = append(*container, individualSelector)
}

func (container *IKEPayloadContainer) BuildSecurityAssociation() *SecurityAssociation {
	securityAssociation := new(SecurityAssociation)
	*container = append(*container, securityAssociation)
	return securityAssociation
}

func (container *ProposalContainer) BuildProposal(proposalNumber uint8, protocolID uint8, spi []byte) *Proposal {
	proposal := new(Proposal)
	proposal.ProposalNumber = proposalNumber
	proposal.ProtocolID = protocolID
	proposal.SPI = append(proposal.SPI, spi...)
	*container = append(*container, proposal)
	return proposal
}

func (container *IKEPayloadContainer) BuildDeletePayload(
	protocolID uint8, spiSize uint8, numberOfSPI uint16, spis []uint32,
) {
	deletePayload := new(Delete)
	deletePayload.ProtocolID = protocolID
	deletePayload.SPISize = spiSize
	deletePayload.NumberOfSPI = numberOfSPI
	deletePayload.SPIs = append(deletePayload.SPIs, spis...)
	*container = append(*container, deletePayload)
}

func (container *TransformContainer) BuildTransform(
	transformType uint8, transformID uint16,
	attributeType *uint16, attributeValue *uint16, variableLengthAttributeValue []byte,
) {
	transform := new(Transform)
	transform.TransformType = transformType
	transform.TransformID = transformID
	if attributeType != nil {
		transform.AttributePresent = true
		transform.AttributeType = *attributeType
		if attributeValue != nil {
			transform.AttributeFormat = AttributeFormatUseTV
			transform.AttributeValue = *attributeValue
		} else if len(variableLengthAttributeValue) != 0 {
			transform.AttributeFormat = AttributeFormatUseTLV
			transform.VariableLengthAttributeValue =
				append(transform.VariableLengthAttributeValue, variableLengthAttributeValue...)
		} else {
			// attribute type given without a value
			return
		}
	} else {
		transform.AttributePresent = false
	}
	*container = append(*container, transform)
}

func (container *IKEPayloadContainer) BuildEAP(code uint8, identifier uint8) *EAP {
	eap := new(EAP)
	eap.Code = code
	eap.Identifier = identifier
	*container = append(*container, eap)
	return eap
}

func (container *IKEPayloadContainer) BuildEAPSuccess(identifier uint8) {
	eap := new(EAP)
	eap.Code = EAPCodeSuccess
	eap.Identifier = identifier
	*container = append(*container, eap)
}

func (container *IKEPayloadContainer) BuildEAPFailure(identifier uint8) {
	eap := new(EAP)
	eap.Code = EAPCodeFailure
	eap.Identifier = identifier
	*container = append(*container, eap)
}

func (container *EAPTypeDataContainer) BuildEAPExpanded(vendorID uint32, vendorType uint32, vendorData []byte) {
	eapExpanded := new(EAPExpanded)
	eapExpanded.VendorID = vendorID
	eapExpanded.VendorType = vendorType
	eapExpanded.VendorData = append(eapExpanded.VendorData, vendorData...)
	*container = append(*container, eapExpanded)
}
