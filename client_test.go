package page

import (
	"context"
	"testing"

	"github.com/emrgen/page/internal/config"
	"github.com/emrgen/page/internal/service"
	"github.com/emrgen/page/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	ctx := context.TODO()
	server := tester.RedisServer(t)
	cfg := &config.Config{}
	cfg.Redis.Addr = server.Addr()
	cfg.Cache.Compression = "gzip"

	client, err := newClient(ctx, cfg, tester.TestDB(t))
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate())

	html := "<p>hello <em>client</em></p>"
	page, err := client.Pages.CreatePage(ctx, service.CreatePageRequest{
		WorkspaceID:     uuid.New().String(),
		OwnerID:         uuid.New().String(),
		Name:            "client",
		DescriptionHTML: &html,
	})
	require.NoError(t, err)

	got, err := client.Pages.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello client", *got.DescriptionStripped)
	assert.True(t, server.Exists("page:"+page.ID))

	version, err := client.Versions.SaveVersion(ctx, page.ID, page.OwnedByID)
	require.NoError(t, err)
	assert.Equal(t, page.ID, version.PageID)
}
