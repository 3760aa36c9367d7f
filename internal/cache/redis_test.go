package cache

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/page/internal/compress"
	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPageCache(t *testing.T) {
	client, server := tester.Redis(t)
	ctx := context.TODO()

	for _, codec := range []compress.Compress{compress.NewNop(), compress.NewGZip(), compress.NewBrotli()} {
		c := NewRedisPageCache(client, codec, time.Minute)

		page := model.NewPage(uuid.New().String(), uuid.New().String(), "cached")
		page.ID = uuid.New().String()
		page.DescriptionHTML = "<p>Hello <b>world</b></p>"
		stripped := "Hello world"
		page.DescriptionStripped = &stripped

		got, err := c.GetPage(ctx, page.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, c.SetPage(ctx, page))
		assert.True(t, server.Exists(pageKey(page.ID)))
		assert.Equal(t, time.Minute, server.TTL(pageKey(page.ID)))

		got, err = c.GetPage(ctx, page.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, page.ID, got.ID)
		assert.Equal(t, page.Name, got.Name)
		assert.Equal(t, "Hello world", *got.DescriptionStripped)

		require.NoError(t, c.DeletePages(ctx, page.ID))
		got, err = c.GetPage(ctx, page.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestRedisPageCache_Expiry(t *testing.T) {
	client, server := tester.Redis(t)
	ctx := context.TODO()
	c := NewRedisPageCache(client, compress.NewLZ4(), time.Second)

	page := model.NewPage(uuid.New().String(), uuid.New().String(), "short lived")
	page.ID = uuid.New().String()
	require.NoError(t, c.SetPage(ctx, page))

	server.FastForward(2 * time.Second)

	got, err := c.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewRedisClient(t *testing.T) {
	_, server := tester.Redis(t)

	client, err := NewRedisClient(context.TODO(), server.Addr(), "", 0)
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
