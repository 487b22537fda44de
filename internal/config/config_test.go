package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(5001), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, DefaultMongoURI, cfg.Store.MongoURI)
	assert.Equal(t, 10*time.Second, cfg.Store.ConnectTimeout)
	assert.Equal(t, DefaultBookDatabase, cfg.Databases.Book)
	assert.Equal(t, DefaultLibraryDatabase, cfg.Databases.Library)
	assert.Equal(t, DefaultCreatorDatabase, cfg.Databases.Creator)
	assert.Equal(t, []string{DefaultAllowedOrigin}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.HealthCheck.Enabled)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://example.org ,")
	t.Setenv("BOOK_DATABASE", "books_test")
	t.Setenv("STORE_CONNECT_TIMEOUT", "3s")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Store.SQLitePath)
	assert.Equal(t, 3*time.Second, cfg.Store.ConnectTimeout)
	assert.Equal(t, "books_test", cfg.Databases.Book)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.org"}, cfg.CORS.AllowedOrigins)
}

func TestStore_Validate(t *testing.T) {
	tests := []struct {
		name    string
		store   Store
		wantErr string
	}{
		{name: "mongo with uri", store: Store{Driver: StoreDriverMongo, MongoURI: DefaultMongoURI}},
		{name: "mongo without uri", store: Store{Driver: StoreDriverMongo}, wantErr: "MONGODB_URI"},
		{name: "sqlite without path", store: Store{Driver: StoreDriverSQLite}, wantErr: "SQLITE_PATH"},
		{name: "postgres without dsn", store: Store{Driver: StoreDriverPostgres}, wantErr: "POSTGRES_DSN"},
		{name: "memory", store: Store{Driver: StoreDriverMemory}},
		{name: "unknown driver", store: Store{Driver: "redis"}, wantErr: "unknown store driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.store.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
