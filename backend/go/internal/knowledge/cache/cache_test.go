package cache

import (
	"Saber/backend/go/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMatches(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{5, 3},
		{10, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinMatches(tt.count, DefaultMinOverlap), "count=%d", tt.count)
	}
}

func TestMemoryCacheThreshold(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResponseCache(0)
	require.NoError(t, c.Save(ctx, models.CachedResponse{
		Keywords:       []string{"nome", "usuario", "cadastro"},
		AnswerText:     "Use a tela de cadastro.",
		Classification: models.ClassificationGlobal,
	}))

	hit, err := c.FindByKeywords(ctx, []string{"nome", "usuario", "endereco"})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "Use a tela de cadastro.", hit.AnswerText)

	miss, err := c.FindByKeywords(ctx, []string{"nome", "endereco"})
	require.NoError(t, err)
	assert.Nil(t, miss)

	none, err := c.FindByKeywords(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemoryCacheSaveUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResponseCache(0)
	require.NoError(t, c.Save(ctx, models.CachedResponse{Keywords: []string{"java", "linguagem"}, AnswerText: "v1"}))
	require.NoError(t, c.Save(ctx, models.CachedResponse{Keywords: []string{"java", "linguagem"}, AnswerText: "v2"}))
	require.NoError(t, c.Save(ctx, models.CachedResponse{Keywords: []string{"python"}, AnswerText: "outro"}))

	assert.Equal(t, 2, c.Len())
	hit, err := c.FindByKeywords(ctx, []string{"java", "linguagem"})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "v2", hit.AnswerText)
}

func TestLookupKeywordsCapsAndDedupes(t *testing.T) {
	in := []string{"a", "b", "a", "", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, lookupKeywords(in))
}
