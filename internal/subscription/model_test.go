package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
)

func TestNormalizePlan(t *testing.T) {
	t.Parallel()

	t.Run("canonical names", func(t *testing.T) {
		t.Parallel()
		for _, p := range subscription.Plans {
			got, ok := subscription.NormalizePlan(string(p))
			assert.True(t, ok)
			assert.Equal(t, p, got)
		}
	})

	t.Run("aliases and case", func(t *testing.T) {
		t.Parallel()
		cases := map[string]subscription.Plan{
			"w":        subscription.PlanWeek,
			"  M ":     subscription.PlanMonth,
			"ГОД":      subscription.PlanYear,
			"навсегда": subscription.PlanForever,
			"Week":     subscription.PlanWeek,
		}
		for in, want := range cases {
			got, ok := subscription.NormalizePlan(in)
			assert.True(t, ok, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("unknown input", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"", "decade", "2 weeks", "wk"} {
			_, ok := subscription.NormalizePlan(in)
			assert.False(t, ok, in)
		}
	})
}

func TestGrantActiveAt(t *testing.T) {
	t.Parallel()

	exp := int64(1000)
	bounded := &subscription.Grant{ExpiresAt: &exp}
	assert.True(t, bounded.ActiveAt(999))
	assert.False(t, bounded.ActiveAt(1000))
	assert.False(t, bounded.ActiveAt(2000))

	forever := &subscription.Grant{ExpiresAt: nil}
	assert.True(t, forever.ActiveAt(1<<60))
}

func TestPlanDurations(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(7*24*3600), subscription.PlanWeek.Duration())
	assert.Equal(t, int64(30*24*3600), subscription.PlanMonth.Duration())
	assert.Equal(t, int64(365*24*3600), subscription.PlanYear.Duration())
	assert.Zero(t, subscription.PlanForever.Duration())
}
