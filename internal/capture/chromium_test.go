package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 1200, o.Width)
	assert.Equal(t, 630, o.Height)
	assert.Equal(t, 30*time.Second, o.Timeout)

	o = Options{Width: 800, Height: 400}.withDefaults()
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 400, o.Height)
}

func TestCapture_ValidatesBeforeLaunch(t *testing.T) {
	c := NewChromium(Options{})

	err := c.Capture(context.Background(), []Shot{{URL: "http://x", OutputPath: "a.png"}, {URL: "http://y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shot 1")
	assert.Contains(t, err.Error(), "output path is required")

	err = c.Capture(context.Background(), []Shot{{OutputPath: "a.png"}})
	assert.ErrorContains(t, err, "url is required")
}

func TestCapture_NoShots(t *testing.T) {
	assert.NoError(t, NewChromium(Options{}).Capture(context.Background(), nil))
}
