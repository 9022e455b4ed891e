package web

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		var name string
		var ids []int
		err := load(context.Background(),
			fetch(&name, func(context.Context) (string, error) { return "Petits", nil }),
			fetch(&ids, func(context.Context) ([]int, error) { return []int{1, 2}, nil }),
		)
		assert.NoError(t, err)
		assert.Equal(t, "Petits", name)
		assert.Equal(t, []int{1, 2}, ids)
	})

	t.Run("first failure cancels the others", func(t *testing.T) {
		boom := errors.New("boom")
		var name string
		var ids []int
		err := load(context.Background(),
			fetch(&name, func(context.Context) (string, error) { return "", boom }),
			fetch(&ids, func(ctx context.Context) ([]int, error) {
				<-ctx.Done()
				return []int{1}, nil // too late: discarded
			}),
		)
		assert.True(t, errors.Is(err, boom))
		assert.Empty(t, name)
		assert.Nil(t, ids)
	})

	t.Run("cancelled parent", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var name string
		err := load(ctx, fetch(&name, func(context.Context) (string, error) { return "Petits", nil }))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, name)
	})
}
