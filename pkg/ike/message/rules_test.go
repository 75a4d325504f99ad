package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadRulesCoverDefinedExchanges(t *testing.T) {
	for _, exchangeType := range []ExchangeType{IKE_SA_INIT, IKE_AUTH, CREATE_CHILD_SA, INFORMATIONAL} {
		for _, isRequest := range []bool{true, false} {
			rules, err := payloadRulesFor(exchangeType, isRequest)
			require.NoError(t, err)
			require.NotEmpty(t, rules)
		}
	}
}

func TestPayloadRulesForUnknownExchange(t *testing.T) {
	_, err := payloadRulesFor(NoExchange, true)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = payloadRulesFor(ExchangeType(99), false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaInitCoreIsMandatory(t *testing.T) {
	for _, isRequest := range []bool{true, false} {
		rules, err := payloadRulesFor(IKE_SA_INIT, isRequest)
		require.NoError(t, err)

		for _, mandatory := range []IKEPayloadType{TypeSA, TypeKE, TypeNiNr} {
			found := false
			for _, rule := range rules {
				if rule.payloadType != mandatory {
					continue
				}
				found = true
				require.Equal(t, 1, rule.min)
				require.Equal(t, 1, rule.max)
			}
			require.True(t, found, "no rule for %s", mandatory)
		}
	}
}

func TestEncryptedPayloadAdmittedNowhere(t *testing.T) {
	for key, rules := range messageRules {
		require.False(t, ruleAllows(rules, TypeSK),
			"encrypted payload admitted in %s %s", key.exchangeType, direction(key.isRequest))
	}
}

func TestRuleAllows(t *testing.T) {
	rules, err := payloadRulesFor(INFORMATIONAL, true)
	require.NoError(t, err)
	require.True(t, ruleAllows(rules, TypeD))
	require.False(t, ruleAllows(rules, TypeKE))
}
