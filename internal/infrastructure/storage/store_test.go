package storage

import (
	"context"
	"testing"

	"github.com/lats/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, key, want string
		wantErr           bool
	}{
		{"", "backup.json", "backup.json", false},
		{"shops/", "backup.json", "shops/backup.json", false},
		{"/a/b/", "backup.json", "a/b/backup.json", false},
		{"", "", "", true},
		{"shops", "../x.json", "", true},
	}
	for _, tt := range tests {
		got, err := objectKey(tt.prefix, tt.key)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewStores(t *testing.T) {
	t.Run("local only", func(t *testing.T) {
		stores, err := NewStores(context.Background(), config.StorageConfig{
			Driver:   DriverLocal,
			LocalDir: t.TempDir(),
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "local", stores.Primary.Name())
		assert.Nil(t, stores.Cloud)
	})

	t.Run("cloud same as primary is ignored", func(t *testing.T) {
		stores, err := NewStores(context.Background(), config.StorageConfig{
			Driver:      DriverLocal,
			CloudDriver: DriverLocal,
			LocalDir:    t.TempDir(),
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, stores.Cloud)
	})

	t.Run("local with s3 cloud copy", func(t *testing.T) {
		stores, err := NewStores(context.Background(), config.StorageConfig{
			Driver:      DriverLocal,
			CloudDriver: DriverS3,
			LocalDir:    t.TempDir(),
			S3:          config.S3Config{Bucket: "lats", AccessKeyID: "k", SecretAccessKey: "s"},
		}, zap.NewNop())
		require.NoError(t, err)
		require.NotNil(t, stores.Cloud)
		assert.Equal(t, "s3", stores.Cloud.Name())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewStores(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown storage driver "ftp"`)
	})
}
