package config

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for k, v := range values {
		t.Setenv(k, v)
	}
}

func TestParseDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_TYPE":       "sqlite",
		"AUTH_PROVIDER": "jwt",
		"JWT_SECRET":    "secret",
	})

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 180, cfg.ReadTimeoutSeconds)
	assert.Equal(t, []string{"*"}, cfg.AcceptedOrigins)
	assert.Equal(t, "blog.db", cfg.SQLitePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.GenerateModels)
	assert.False(t, cfg.ImageUploadsEnabled())
}

func TestParseLists(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_TYPE":               "postgres",
		"DATABASE_URL":          "postgres://localhost/blog",
		"DATABASE_REPLICA_URLS": "postgres://r1/blog, postgres://r2/blog,",
		"ACCEPTED_ORIGINS":      "https://a.example.com, https://b.example.com",
		"AUTH_PROVIDER":         "descope",
		"DESCOPE_PROJECT_ID":    "P123",
		"S3_BUCKET":             "images",
	})

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"postgres://r1/blog", "postgres://r2/blog"}, cfg.DatabaseReplicaURLs)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AcceptedOrigins)
	assert.True(t, cfg.ImageUploadsEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "postgres without url",
			cfg:     Config{DBType: DBTypePostgres, AuthProvider: AuthProviderJWT, JWTSecret: "s"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown db",
			cfg:     Config{DBType: "mongo", AuthProvider: AuthProviderJWT, JWTSecret: "s"},
			wantErr: "DB_TYPE",
		},
		{
			name:    "descope without project",
			cfg:     Config{DBType: DBTypeSQLite, SQLitePath: "x.db", AuthProvider: AuthProviderDescope},
			wantErr: "DESCOPE_PROJECT_ID",
		},
		{
			name:    "jwt without secret",
			cfg:     Config{DBType: DBTypeSQLite, SQLitePath: "x.db", AuthProvider: AuthProviderJWT},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown provider",
			cfg:     Config{DBType: DBTypeSQLite, SQLitePath: "x.db", AuthProvider: "clerk"},
			wantErr: "AUTH_PROVIDER",
		},
		{
			name: "valid",
			cfg:  Config{DBType: DBTypeSQLite, SQLitePath: "x.db", AuthProvider: AuthProviderJWT, JWTSecret: "s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type fakeParameterSource struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeParameterSource) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestExportParameters(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	// registers cleanup so the exported value does not leak into other tests
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	source := &fakeParameterSource{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []ssmtypes.Parameter{
				{Name: aws.String("/blog/prod/database_url"), Value: aws.String("postgres://ssm/blog")},
			},
			NextToken: aws.String("next"),
		},
		{
			Parameters: []ssmtypes.Parameter{
				{Name: aws.String("/blog/prod/JWT_SECRET"), Value: aws.String("from-ssm")},
			},
		},
	}}

	require.NoError(t, ExportParameters(context.Background(), source, "/blog/prod"))

	assert.Equal(t, 2, source.calls)
	assert.Equal(t, "postgres://ssm/blog", os.Getenv("DATABASE_URL"))
	assert.Equal(t, "from-env", os.Getenv("JWT_SECRET"), "environment wins over SSM")
}
