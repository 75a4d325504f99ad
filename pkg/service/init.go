package service

import (
	"crypto/rand"
	"io/ioutil"
	"net"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/5l1v3r1/strongswan/internal/logger"
	ike_context "github.com/5l1v3r1/strongswan/pkg/context"
	"github.com/5l1v3r1/strongswan/pkg/factory"
	ike_message "github.com/5l1v3r1/strongswan/pkg/ike/message"
)

// IkemsgApp drives the tool's one-shot operations on top of the loaded
// configuration.
type IkemsgApp struct {
	cfg    *factory.Config
	ikeCtx *ike_context.IkeContext
}

func NewApp(cfg *factory.Config) (*IkemsgApp, error) {
	ikemsg := &IkemsgApp{cfg: cfg}
	ikemsg.SetLogEnable(cfg.GetLogEnable())
	ikemsg.SetLogLevel(cfg.GetLogLevel())
	ikemsg.SetReportCaller(cfg.GetLogReportCaller())

	ikemsg.ikeCtx = ike_context.IkeSelf()
	return ikemsg, nil
}

func (a *IkemsgApp) SetLogEnable(enable bool) {
	logger.MainLog.Infof("Log enable is set to [%v]", enable)
	if enable && logger.Log.Out == os.Stderr {
		return
	} else if !enable && logger.Log.Out == ioutil.Discard {
		return
	}

	a.cfg.SetLogEnable(enable)
	if enable {
		logger.Log.SetOutput(os.Stderr)
	} else {
		logger.Log.SetOutput(ioutil.Discard)
	}
}

func (a *IkemsgApp) SetLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.MainLog.Warnf("Log level [%s] is invalid", level)
		return
	}

	logger.MainLog.Infof("Log level is set to [%s]", level)
	if lvl == logger.Log.GetLevel() {
		return
	}

	a.cfg.SetLogLevel(level)
	logger.Log.SetLevel(lvl)
}

func (a *IkemsgApp) SetReportCaller(reportCaller bool) {
	logger.MainLog.Infof("Report Caller is set to [%v]", reportCaller)
	if reportCaller == logger.Log.ReportCaller {
		return
	}

	a.cfg.SetLogReportCaller(reportCaller)
	logger.Log.SetReportCaller(reportCaller)
}

// Decode runs one raw datagram through header and body parsing and reports
// what it carries.
func (a *IkemsgApp) Decode(rawData []byte) (*ike_message.Message, error) {
	if maxSize := a.cfg.Configuration.MaxMessageSize; len(rawData) > int(maxSize) {
		return nil, errors.Errorf("datagram of %d bytes exceeds the configured maximum of %d",
			len(rawData), maxSize)
	}

	packet := &ike_message.Packet{Data: rawData}
	ikeMessage := ike_message.NewMessageFromPacket(logger.IKELog, packet)

	if err := ikeMessage.ParseHeader(); err != nil {
		return nil, errors.Wrap(err, "decode datagram")
	}
	if err := ikeMessage.ParseBody(); err != nil {
		return nil, errors.Wrap(err, "decode datagram")
	}

	saId, err := ikeMessage.IkeSaId()
	if err != nil {
		return nil, err
	}

	logger.AppLog.Infof("%s %s, message id %d, SA %s",
		ikeMessage.ExchangeType, messageDirection(ikeMessage.IsRequest), ikeMessage.MessageID, saId)
	for _, payload := range ikeMessage.Payloads() {
		logger.AppLog.Infof("  payload: %s", payload.Type())
	}

	return ikeMessage, nil
}

// Build registers a fresh security association and composes a plausible
// IKE_SA_INIT request for it, returning the wire bytes.
func (a *IkemsgApp) Build() ([]byte, error) {
	ikeSa, err := a.ikeCtx.NewIkeSa(true)
	if err != nil {
		return nil, err
	}

	messageID, err := ikeSa.NextMessageID()
	if err != nil {
		return nil, err
	}

	ikeMessage := ike_message.NewMessage(logger.IKELog)
	ikeMessage.ExchangeType = ike_message.IKE_SA_INIT
	ikeMessage.IsRequest = true
	ikeMessage.MessageID = messageID
	ikeMessage.SetIkeSaId(ikeSa.SaId)
	ikeMessage.SetSource(&net.UDPAddr{IP: net.IPv4zero, Port: 500})
	ikeMessage.SetDestination(&net.UDPAddr{IP: net.IPv4zero, Port: 500})

	var payloads ike_message.IKEPayloadContainer

	securityAssociation := payloads.BuildSecurityAssociation()
	proposal := securityAssociation.Proposals.BuildProposal(1, ike_message.TypeIKE, nil)

	var attributeType uint16 = ike_message.AttributeTypeKeyLength
	var keyLength uint16 = 256
	proposal.EncryptionAlgorithm.BuildTransform(
		ike_message.TypeEncryptionAlgorithm, ike_message.ENCR_AES_CBC, &attributeType, &keyLength, nil)
	proposal.IntegrityAlgorithm.BuildTransform(
		ike_message.TypeIntegrityAlgorithm, ike_message.AUTH_HMAC_SHA1_96, nil, nil, nil)
	proposal.PseudorandomFunction.BuildTransform(
		ike_message.TypePseudorandomFunction, ike_message.PRF_HMAC_SHA1, nil, nil, nil)
	proposal.DiffieHellmanGroup.BuildTransform(
		ike_message.TypeDiffieHellmanGroup, ike_message.DH_2048_BIT_MODP, nil, nil, nil)

	keyExchangeData := make([]byte, 256)
	if _, err := rand.Read(keyExchangeData); err != nil {
		return nil, errors.Wrap(ike_message.ErrNoResource, "generate key exchange data")
	}
	payloads.BuildKeyExchange(ike_message.DH_2048_BIT_MODP, keyExchangeData)

	nonceData := make([]byte, 32)
	if _, err := rand.Read(nonceData); err != nil {
		return nil, errors.Wrap(ike_message.ErrNoResource, "generate nonce data")
	}
	payloads.BuildNonce(nonceData)

	for _, payload := range payloads {
		ikeMessage.AddPayload(payload)
	}

	packet, err := ikeMessage.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "build IKE_SA_INIT request")
	}

	logger.AppLog.Infof("Built %s request for SA %s, message id %d, %d bytes",
		ikeMessage.ExchangeType, ikeSa.SaId, messageID, len(packet.Data))

	return packet.Data, nil
}

func messageDirection(isRequest bool) string {
	if isRequest {
		return "request"
	}
	return "response"
}
