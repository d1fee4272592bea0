package browser

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/newsbot/internal/config"
	"github.com/IshaanNene/newsbot/internal/types"
)

// TestRodDriverLive drives a real Chromium against the local test server.
func TestRodDriverLive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live browser test")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no Chromium found")
	}

	srv := newTestServer(t)
	cfg := config.DefaultConfig().Browser
	cfg.Bin = bin
	cfg.StepTimeout = 2 * time.Second
	cfg.PageLoadTimeout = 10 * time.Second

	d, err := NewRodDriver(&cfg, testLogger)
	require.NoError(t, err)
	defer d.Close()

	ctx := context.Background()
	require.NoError(t, d.Navigate(ctx, srv.URL+"/"))

	input, err := d.WaitClickable(ctx, ParseSelector("id=q"))
	require.NoError(t, err)
	require.NoError(t, input.Input("Donald Trump"))
	require.NoError(t, input.Submit(ctx))

	articles, err := d.FindElements(ctx, ParseSelector("class=article-mezzoti"))
	require.NoError(t, err)
	require.Len(t, articles, 2)

	// The first article has no <time>; an absolute XPath must not escape it.
	_, err = articles[0].FindElement(ctx, ParseSelector("xpath=//time"))
	require.True(t, types.IsNotFound(err))
	_, err = articles[1].FindElement(ctx, ParseSelector("xpath=//time"))
	require.NoError(t, err)

	_, err = d.WaitVisible(ctx, ParseSelector("id=secret"))
	require.True(t, types.IsNotFound(err))

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}
