package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"storage": map[string]any{
			"bucketUrl":     "mem://",
			"publicBaseUrl": "",
		},
		"signup": map[string]any{
			"strictRoleMetadata": true,
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "STORAGE_BUCKETURL", want: "storage.bucketUrl"},
		{envKey: "STORAGE_PUBLICBASEURL", want: "storage.publicBaseUrl"},
		{envKey: "SIGNUP_STRICTROLEMETADATA", want: "signup.strictRoleMetadata"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.True(t, cfg.Signup.StrictRoleMetadata)
	assert.False(t, cfg.Profiles.AllowRoleChange)
	assert.Equal(t, DefaultBucketName, cfg.Storage.BucketName)
	assert.Equal(t, DefaultMaxObjectSize, cfg.Storage.MaxObjectSize)
	assert.ElementsMatch(t, []string{"image/jpeg", "image/png", "image/webp"}, cfg.Storage.AllowedContentTypes)
	assert.Equal(t, 50, cfg.Catalog.DefaultLimit)
	assert.Equal(t, 100, cfg.Catalog.MaxLimit)
	assert.Equal(t, "marketplace", cfg.Metrics.Prefix)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Signup:   &SignupConfig{StrictRoleMetadata: false},
		Profiles: &ProfilesConfig{AllowRoleChange: true},
		Storage:  &StorageConfig{BucketURL: "file:///tmp/images", MaxObjectSize: 1024},
	}
	cfg.ApplyDefaults()

	assert.False(t, cfg.Signup.StrictRoleMetadata)
	assert.True(t, cfg.Profiles.AllowRoleChange)
	assert.Equal(t, "file:///tmp/images", cfg.Storage.BucketURL)
	assert.Equal(t, int64(1024), cfg.Storage.MaxObjectSize)
}
