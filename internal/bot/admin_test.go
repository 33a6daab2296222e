package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliverAll(t *testing.T) {
	t.Parallel()

	t.Run("counts delivered and failed", func(t *testing.T) {
		t.Parallel()
		var sent []int64
		ok, fail := deliverAll([]int64{1, 2, 3, 4}, func(id int64) error {
			sent = append(sent, id)
			if id%2 == 0 {
				return errors.New("blocked")
			}
			return nil
		}, 0)
		assert.Equal(t, 2, ok)
		assert.Equal(t, 2, fail)
		assert.Equal(t, []int64{1, 2, 3, 4}, sent)
	})

	t.Run("failure does not stop the run", func(t *testing.T) {
		t.Parallel()
		calls := 0
		ok, fail := deliverAll([]int64{1, 2, 3}, func(int64) error {
			calls++
			return errors.New("blocked")
		}, 0)
		assert.Zero(t, ok)
		assert.Equal(t, 3, fail)
		assert.Equal(t, 3, calls)
	})

	t.Run("empty recipient list", func(t *testing.T) {
		t.Parallel()
		ok, fail := deliverAll(nil, func(int64) error { return nil }, 0)
		assert.Zero(t, ok)
		assert.Zero(t, fail)
	})
}
