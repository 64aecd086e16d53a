package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "token"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("storage"))
}

func TestTokenCmd_IssuesVerifiableToken(t *testing.T) {
	t.Setenv("PETCARE_AUTH_JWT_SECRET", "s3cret")

	out, err := execute(t, "token", "--user", "user-1")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	v, err := newJWT(config.AuthConfig{JWTSecret: "s3cret", JWTIssuer: config.Defaults().Auth.JWTIssuer})
	require.NoError(t, err)
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestTokenCmd_RequiresSecret(t *testing.T) {
	t.Setenv("PETCARE_AUTH_JWT_SECRET", "")

	_, err := execute(t, "token", "--user", "user-1")
	require.Error(t, err)
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	_, err := execute(t, "migrate", "up", "--storage", "sqlite")
	require.Error(t, err)
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	_, err := execute(t, "serve", "--storage", "postgres")
	require.Error(t, err, "postgres without dsn must fail validation")

	_, err = execute(t, "serve", "--auth-mode", "jwt")
	require.Error(t, err, "jwt without secret must fail validation")
}

func TestNewCapabilities(t *testing.T) {
	caps, err := newCapabilities(config.CapabilitiesConfig{})
	require.NoError(t, err)
	assert.Nil(t, caps)

	caps, err = newCapabilities(config.CapabilitiesConfig{AllowAll: true})
	require.NoError(t, err)
	assert.NotNil(t, caps)
}

func TestNewVerifier(t *testing.T) {
	v, err := newVerifier(config.AuthConfig{Mode: config.AuthDev})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = newVerifier(config.AuthConfig{Mode: config.AuthJWT, JWTSecret: "x"})
	require.NoError(t, err)
	assert.NotNil(t, v)

	_, err = newVerifier(config.AuthConfig{Mode: config.AuthRemote})
	require.Error(t, err)
}
