package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilClient_IsMiss(t *testing.T) {
	c := NewService(nil)
	ctx := context.Background()

	assert.False(t, c.IsAvailable())

	var dest []string
	assert.ErrorIs(t, c.GetCategoryTree(ctx, &dest), ErrMiss)
	assert.NoError(t, c.SetCategoryTree(ctx, []string{"a"}))
	assert.NoError(t, c.InvalidateCategoryTree(ctx))
	assert.NoError(t, c.Delete(ctx))
}
