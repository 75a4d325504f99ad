package message

import "github.com/pkg/errors"

// payloadRule bounds how many payloads of one type a message may carry. A
// payload type absent from a message's rule list is not admitted at all.
type payloadRule struct {
	payloadType IKEPayloadType
	min         int
	max         int
}

type messageRuleKey struct {
	exchangeType ExchangeType
	isRequest    bool
}

// Occurrence caps for the payload types a message may carry repeatedly.
const (
	maxNotifyPayloads  = 16
	maxDeletePayloads  = 16
	maxCertPayloads    = 4
	maxCertReqPayloads = 4
	maxVendorPayloads  = 8
)

// messageRules is the registry of payload admissibility per exchange type
// and direction. It is populated here once and never mutated afterwards.
var messageRules = map[messageRuleKey][]payloadRule{
	{IKE_SA_INIT, true}: {
		{TypeSA, 1, 1},
		{TypeKE, 1, 1},
		{TypeNiNr, 1, 1},
		{TypeN, 0, maxNotifyPayloads},
		{TypeCERTreq, 0, maxCertReqPayloads},
		{TypeV, 0, maxVendorPayloads},
	},
	{IKE_SA_INIT, false}: {
		{TypeSA, 1, 1},
		{TypeKE, 1, 1},
		{TypeNiNr, 1, 1},
		{TypeN, 0, maxNotifyPayloads},
		{TypeCERTreq, 0, maxCertReqPayloads},
		{TypeV, 0, maxVendorPayloads},
	},
	{IKE_AUTH, true}: {
		{TypeIDi, 0, 1},
		{TypeIDr, 0, 1},
		{TypeAUTH, 0, 1},
		{TypeSA, 0, 1},
		{TypeTSi, 0, 1},
		{TypeTSr, 0, 1},
		{TypeCERT, 0, maxCertPayloads},
		{TypeCERTreq, 0, maxCertReqPayloads},
		{TypeN, 0, maxNotifyPayloads},
		{TypeCP, 0, 1},
		{TypeEAP, 0, 1},
		{TypeV, 0, maxVendorPayloads},
	},
	{IKE_AUTH, false}: {
		{TypeIDr, 0, 1},
		{TypeAUTH, 0, 1},
		{TypeSA, 0, 1},
		{TypeTSi, 0, 1},
		{TypeTSr, 0, 1},
		{TypeCERT, 0, maxCertPayloads},
		{TypeN, 0, maxNotifyPayloads},
		{TypeCP, 0, 1},
		{TypeEAP, 0, 1},
		{TypeV, 0, maxVendorPayloads},
	},
	{CREATE_CHILD_SA, true}: {
		{TypeSA, 1, 1},
		{TypeNiNr, 1, 1},
		{TypeKE, 0, 1},
		{TypeTSi, 0, 1},
		{TypeTSr, 0, 1},
		{TypeN, 0, maxNotifyPayloads},
		{TypeCP, 0, 1},
		{TypeV, 0, maxVendorPayloads},
	},
	{CREATE_CHILD_SA, false}: {
		{TypeSA, 1, 1},
		{TypeNiNr, 1, 1},
		{TypeKE, 0, 1},
		{TypeTSi, 0, 1},
		{TypeTSr, 0, 1},
		{TypeN, 0, maxNotifyPayloads},
		{TypeCP, 0, 1},
		{TypeV, 0, maxVendorPayloads},
	},
	{INFORMATIONAL, true}: {
		{TypeN, 0, maxNotifyPayloads},
		{TypeD, 0, maxDeletePayloads},
		{TypeCP, 0, 1},
		{TypeV, 0, maxVendorPayloads},
	},
	{INFORMATIONAL, false}: {
		{TypeN, 0, maxNotifyPayloads},
		{TypeD, 0, maxDeletePayloads},
		{TypeCP, 0, 1},
		{TypeV, 0, maxVendorPayloads},
	},
}

func payloadRulesFor(exchangeType ExchangeType, isRequest bool) ([]payloadRule, error) {
	rules, ok := messageRules[messageRuleKey{exchangeType, isRequest}]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "no message rule for %s %s",
			exchangeType, direction(isRequest))
	}
	return rules, nil
}

func ruleAllows(rules []payloadRule, payloadType IKEPayloadType) bool {
	for _, rule := range rules {
		if rule.payloadType == payloadType {
			return true
		}
	}
	return false
}

func direction(isRequest bool) string {
	if isRequest {
		return "request"
	}
	return "response"
}
