package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := []subscription.InvoicePayload{
		{
			Kind: subscription.PayloadKindSubscription,
			Type: subscription.PayloadTypeSelf,
			Plan: subscription.PlanMonth,
		},
		{
			Kind:         subscription.PayloadKindSubscription,
			Type:         subscription.PayloadTypeGift,
			Plan:         subscription.PlanYear,
			GiftToUserID: 42,
		},
		{
			Kind:           subscription.PayloadKindSubscription,
			Type:           subscription.PayloadTypeGift,
			Plan:           subscription.PlanForever,
			GiftToUsername: "durov",
		},
	}

	for _, p := range payloads {
		encoded := subscription.EncodePayload(p)
		require.NotEmpty(t, encoded)

		decoded, ok := subscription.DecodePayload(encoded)
		require.True(t, ok)
		assert.Equal(t, p, decoded)
	}
}

func TestDecodePayloadFailures(t *testing.T) {
	t.Parallel()

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "not json", `{"kind":`, "123"} {
			p, ok := subscription.DecodePayload(s)
			assert.False(t, ok, s)
			assert.Zero(t, p, s)
		}
	})

	t.Run("wrong kind", func(t *testing.T) {
		t.Parallel()
		p, ok := subscription.DecodePayload(`{"kind":"donation","type":"self","plan":"week"}`)
		assert.False(t, ok)
		assert.Zero(t, p)
	})
}
