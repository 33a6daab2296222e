package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w1nReach/w1nReachBotik/internal/subscription"
	"github.com/w1nReach/w1nReachBotik/internal/subscription/service"
)

// fakeGrantRepo повторяет семантику postgres-репозитория в памяти.
type fakeGrantRepo struct {
	nextID int64
	grants []*subscription.Grant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{nextID: 1}
}

func (r *fakeGrantRepo) Insert(_ context.Context, g *subscription.Grant) error {
	cp := *g
	cp.ID = r.nextID
	r.nextID++
	r.grants = append(r.grants, &cp)
	g.ID = cp.ID
	return nil
}

func effectiveExpiry(g *subscription.Grant) int64 {
	if g.ExpiresAt == nil {
		return 1<<63 - 1
	}
	return *g.ExpiresAt
}

func (r *fakeGrantRepo) ActiveByUserID(_ context.Context, userID, now int64) (*subscription.Grant, error) {
	var best *subscription.Grant
	for _, g := range r.grants {
		if g.UserID != userID || !g.ActiveAt(now) {
			continue
		}
		if best == nil ||
			effectiveExpiry(g) > effectiveExpiry(best) ||
			(effectiveExpiry(g) == effectiveExpiry(best) && g.ID > best.ID) {
			best = g
		}
	}
	return best, nil
}

func (r *fakeGrantRepo) LatestByUserID(_ context.Context, userID int64) (*subscription.Grant, error) {
	var best *subscription.Grant
	for _, g := range r.grants {
		if g.UserID == userID && (best == nil || g.ID > best.ID) {
			best = g
		}
	}
	return best, nil
}

func (r *fakeGrantRepo) Transfer(_ context.Context, grantID, toUserID, by int64) (*subscription.Grant, error) {
	for i, g := range r.grants {
		if g.ID != grantID {
			continue
		}
		r.grants = append(r.grants[:i], r.grants[i+1:]...)
		moved := &subscription.Grant{
			ID:        r.nextID,
			UserID:    toUserID,
			Plan:      g.Plan,
			CreatedAt: g.CreatedAt,
			ExpiresAt: g.ExpiresAt,
			GiftedBy:  &by,
		}
		r.nextID++
		r.grants = append(r.grants, moved)
		return moved, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeGrantRepo) CountActiveUsers(_ context.Context, now int64) (int, error) {
	seen := map[int64]bool{}
	for _, g := range r.grants {
		if g.ActiveAt(now) {
			seen[g.UserID] = true
		}
	}
	return len(seen), nil
}

const day = int64(86400)

func TestGrantAndHasActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("week grant active before expiry, inactive after", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		g, err := svc.Grant(ctx, 1, subscription.PlanWeek, now, nil)
		require.NoError(t, err)
		require.NotNil(t, g.ExpiresAt)
		assert.Equal(t, now+7*day, *g.ExpiresAt)

		active, err := svc.HasActive(ctx, 1, now+6*day)
		require.NoError(t, err)
		assert.True(t, active)

		active, err = svc.HasActive(ctx, 1, now+8*day)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("forever grant never expires", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		g, err := svc.Grant(ctx, 1, subscription.PlanForever, now, nil)
		require.NoError(t, err)
		assert.Nil(t, g.ExpiresAt)

		active, err := svc.HasActive(ctx, 1, now+10_000_000)
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("grants for different users do not interfere", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		_, err := svc.Grant(ctx, 1, subscription.PlanWeek, now, nil)
		require.NoError(t, err)

		active, err := svc.HasActive(ctx, 2, now)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		_, err := svc.Grant(ctx, 1, subscription.Plan("decade"), 0, nil)
		assert.ErrorIs(t, err, subscription.ErrUnknownPlan)
	})
}

func TestCurrentGrant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("picks grant with latest expiry among history", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		_, err := svc.Grant(ctx, 1, subscription.PlanWeek, now, nil)
		require.NoError(t, err)
		_, err = svc.Grant(ctx, 1, subscription.PlanYear, now, nil)
		require.NoError(t, err)

		g, err := svc.CurrentGrant(ctx, 1, now+day)
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Equal(t, subscription.PlanYear, g.Plan)
	})

	t.Run("unbounded beats any bounded expiry", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		_, err := svc.Grant(ctx, 1, subscription.PlanForever, now, nil)
		require.NoError(t, err)
		_, err = svc.Grant(ctx, 1, subscription.PlanYear, now, nil)
		require.NoError(t, err)

		g, err := svc.CurrentGrant(ctx, 1, now)
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Equal(t, subscription.PlanForever, g.Plan)
	})

	t.Run("nil when nothing active", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		_, err := svc.Grant(ctx, 1, subscription.PlanWeek, now, nil)
		require.NoError(t, err)

		g, err := svc.CurrentGrant(ctx, 1, now+8*day)
		require.NoError(t, err)
		assert.Nil(t, g)
	})
}

func TestTransfer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("moves grant preserving expiry", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)
		payer, recipient := int64(1), int64(2)

		g, err := svc.Grant(ctx, payer, subscription.PlanMonth, now, &payer)
		require.NoError(t, err)

		moved, err := svc.Transfer(ctx, g.ID, recipient, payer)
		require.NoError(t, err)
		assert.Equal(t, recipient, moved.UserID)
		assert.Equal(t, g.CreatedAt, moved.CreatedAt)
		require.NotNil(t, moved.ExpiresAt)
		assert.Equal(t, *g.ExpiresAt, *moved.ExpiresAt)
		require.NotNil(t, moved.GiftedBy)
		assert.Equal(t, payer, *moved.GiftedBy)

		// получатель активен, у плательщика гранта больше нет
		active, err := svc.HasActive(ctx, recipient, now+day)
		require.NoError(t, err)
		assert.True(t, active)

		active, err = svc.HasActive(ctx, payer, now+day)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("missing grant is a hard error", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		_, err := svc.Transfer(ctx, 999, 2, 1)
		assert.ErrorIs(t, err, service.ErrGrantNotFound)
	})
}

func TestLatestGrant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns most recent row", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		_, err := svc.Grant(ctx, 1, subscription.PlanWeek, now, nil)
		require.NoError(t, err)
		second, err := svc.Grant(ctx, 1, subscription.PlanMonth, now, nil)
		require.NoError(t, err)

		g, err := svc.LatestGrant(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, second.ID, g.ID)
	})

	t.Run("no grants", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		_, err := svc.LatestGrant(ctx, 1)
		assert.ErrorIs(t, err, service.ErrNoSubscription)
	})
}

func TestProvisionalGiftClaim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const (
		payerID    = int64(10)
		recipient  = int64(20)
		strangerID = int64(30)
	)

	t.Run("payer transfers own provisional grant to recipient", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		payer := payerID
		g, err := svc.Grant(ctx, payerID, subscription.PlanMonth, now, &payer)
		require.NoError(t, err)
		require.True(t, g.Provisional())

		moved, err := svc.Transfer(ctx, g.ID, recipient, payerID)
		require.NoError(t, err)
		assert.Equal(t, recipient, moved.UserID)
		assert.False(t, moved.Provisional())
		require.NotNil(t, moved.GiftedBy)
		assert.Equal(t, payerID, *moved.GiftedBy)
	})

	t.Run("stranger has no grant of their own to claim from", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		payer := payerID
		_, err := svc.Grant(ctx, payerID, subscription.PlanMonth, now, &payer)
		require.NoError(t, err)

		// перенос инициирует только владелец: у постороннего LatestGrant пуст
		_, err = svc.LatestGrant(ctx, strangerID)
		assert.ErrorIs(t, err, service.ErrNoSubscription)
	})

	t.Run("received gift is not provisional", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		now := int64(1_700_000_000)

		payer := payerID
		g, err := svc.Grant(ctx, recipient, subscription.PlanYear, now, &payer)
		require.NoError(t, err)
		assert.False(t, g.Provisional())
	})

	t.Run("self purchase is not provisional", func(t *testing.T) {
		t.Parallel()
		svc := service.NewService(newFakeGrantRepo())
		g, err := svc.Grant(ctx, payerID, subscription.PlanWeek, 1_700_000_000, nil)
		require.NoError(t, err)
		assert.False(t, g.Provisional())
	})
}
