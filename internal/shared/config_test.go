package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadWith_Defaults(t *testing.T) {
	c, err := LoadWith(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, 45, c.ProviderInFlight)
	assert.Equal(t, 100, c.StaticBatchSize)
	assert.Equal(t, time.Hour, c.StaticTTL())
	assert.Equal(t, 25*time.Second, c.SearchTimeout())
	assert.Equal(t, 3, c.DefaultTopN)
	assert.Equal(t, 10, c.MaxTopN)
	assert.Empty(t, c.KafkaBrokers)
}

func TestLoadWith_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
app_env: dev
provider_max_in_flight: 20
search_timeout_seconds: 10
kafka_brokers: [k1:9092, k2:9092]
ingest_hotel_codes: ["1", "2", "3"]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	c, err := LoadWith(envMap(map[string]string{
		"CONFIG_PATH":            path,
		"PROVIDER_MAX_IN_FLIGHT": "30",
		"INGEST_HOTEL_CODES":     "10, 11 12",
	}))
	require.NoError(t, err)

	assert.Equal(t, "dev", c.AppEnv, "file overrides default")
	assert.Equal(t, 10*time.Second, c.SearchTimeout())
	assert.Equal(t, 30, c.ProviderInFlight, "env overrides file")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, []string{"10", "11", "12"}, c.IngestHotelCodes)
	assert.Equal(t, 100, c.StaticBatchSize, "untouched keys keep defaults")
}

func TestLoadWith_Errors(t *testing.T) {
	_, err := LoadWith(envMap(map[string]string{"CONFIG_PATH": filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("provider_rps: [1"), 0o600))
	_, err = LoadWith(envMap(map[string]string{"CONFIG_PATH": bad}))
	assert.Error(t, err)

	_, err = LoadWith(envMap(map[string]string{"PROVIDER_RPS": "fast", "MAX_TOP_N": "x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_RPS, MAX_TOP_N")

	_, err = LoadWith(envMap(map[string]string{"DEFAULT_TOP_N": "12"}))
	assert.Error(t, err)
}
