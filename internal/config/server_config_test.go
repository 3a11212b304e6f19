package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name   string
		server ServerConfig
		want   string
	}{
		{
			name: "localhost default port",
			server: ServerConfig{
				Host: "localhost",
				Port: 8030,
			},
			want: "localhost:8030",
		},
		{
			name: "bind all interfaces",
			server: ServerConfig{
				Host: "0.0.0.0",
				Port: 8080,
			},
			want: "0.0.0.0:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.server.Address())
		})
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "eagle", Password: "pw", DBName: "sheets", SSLMode: "disable"}

	assert.Equal(t, "postgres://eagle:pw@db:5432/sheets?sslmode=disable", p.DSN())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eagle-orders", cfg.Kafka.ShipNotifyTopic)
	assert.Equal(t, []string{"New Amazon Store", "New Magento Store"}, cfg.ShipStation.StoreNames)
	assert.Equal(t, "WSI", cfg.ShipStation.WSITagName)
	assert.Equal(t, "1", cfg.Eagle.StoreNumber)
	assert.Equal(t, "145050", cfg.Eagle.CustomerID)
	assert.Equal(t, "EComm", cfg.Eagle.ClerkID)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", " k1:9092, ,k2:9092 ")
	t.Setenv("KAFKA_WORKERS", "8")
	t.Setenv("MAGESTACK_TIMEOUT_MS", "250")
	t.Setenv("EAGLE_CLERK_ID", "Web")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Kafka.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Magestack.Timeout)
	assert.Equal(t, "Web", cfg.Eagle.ClerkID)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", " , ")

	_, err := Load()
	assert.ErrorContains(t, err, "kafka brokers is empty")
}

func TestGetEnvAsInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")

	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
