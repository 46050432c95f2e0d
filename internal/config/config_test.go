package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "socsite.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "matcha", cfg.Site)
	assert.Equal(t, 14, cfg.HorizonDays)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_PartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socsite.yaml")
	body := `
site: CEUS
horizon_days: 0
loading_delay: 500ms
base_url: https://www.ceusunsw.com/
feeds:
  - url: https://calendar.example.com/ceus.ics
    name: ceus-calendar
deploy:
  bucket: ceus-site
  prefix: /www/
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ceus", cfg.Site)
	assert.Equal(t, 14, cfg.HorizonDays)
	assert.Equal(t, 500*time.Millisecond, cfg.LoadingDelay)
	assert.Equal(t, "https://www.ceusunsw.com", cfg.BaseURL)
	assert.Equal(t, "ceus-calendar", cfg.Feeds[0].ID)
	assert.Equal(t, "www", cfg.Deploy.Prefix)
	assert.Equal(t, "ap-southeast-2", cfg.Deploy.Region)
	assert.Equal(t, "*/30 * * * *", cfg.RefreshCron)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvListen, ":9999")
	t.Setenv(EnvSite, " Matcha ")
	t.Setenv(EnvAnalyticsID, "G-TEST")
	t.Setenv(EnvBucket, "env-bucket")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, "matcha", cfg.Site)
	assert.Equal(t, "G-TEST", cfg.AnalyticsID)
	assert.Equal(t, "env-bucket", cfg.Deploy.Bucket)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socsite.yaml")
	cfg := DefaultConfig()
	cfg.Site = "ceus"
	cfg.Feeds = []FeedConfig{{ID: "main", URL: "https://example.com/a.ics"}}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ceus", loaded.Site)
	assert.Equal(t, cfg.Feeds, loaded.Feeds)
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Australia/Sydney", cfg.Location().String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())
}
