package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/systmms/botcfg/pkg/botfile"
	"github.com/systmms/botcfg/pkg/encrypt"
	"github.com/systmms/botcfg/pkg/service"
)

func writeProtectedBot(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locked.bot")
	config := botfile.New()
	config.Name = "locked"
	_, err := config.ConnectService(&service.Endpoint{
		Base:        service.Base{Type: service.KindEndpoint, Name: "production"},
		AppID:       "app-1",
		AppPassword: "hunter2",
	})
	require.NoError(t, err)

	secret, err := encrypt.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, config.SaveAs(path, secret))
	return path, secret
}

func TestSecretNewCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewSecretCommand(testOptions(t, ""))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"new"})

	require.NoError(t, cmd.Execute())

	key := strings.TrimSpace(out.String())
	require.NotEmpty(t, key)

	// Two invocations never hand out the same key.
	var again bytes.Buffer
	cmd = NewSecretCommand(testOptions(t, ""))
	cmd.SetOut(&again)
	cmd.SetArgs([]string{"new"})
	require.NoError(t, cmd.Execute())
	assert.NotEqual(t, key, strings.TrimSpace(again.String()))
}

func TestSecretStashCommand(t *testing.T) {
	path, secret := writeProtectedBot(t)
	opts := testOptions(t, path)
	require.NoError(t, opts.SetSecret(secret))

	cmd := NewSecretCommand(opts)
	cmd.SetArgs([]string{"stash"})

	require.NoError(t, cmd.Execute())

	account, err := filepath.Abs(path)
	require.NoError(t, err)
	stored, err := keyring.Get(keyringService, account)
	require.NoError(t, err)
	assert.Equal(t, secret, stored)
}

func TestSecretStashCommand_WrongSecret(t *testing.T) {
	path, _ := writeProtectedBot(t)
	opts := testOptions(t, path)
	require.NoError(t, opts.SetSecret("not-the-secret"))

	cmd := NewSecretCommand(opts)
	cmd.SetArgs([]string{"stash"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, botfile.ErrInvalidSecret)

	account, absErr := filepath.Abs(path)
	require.NoError(t, absErr)
	_, err = keyring.Get(keyringService, account)
	assert.ErrorIs(t, err, keyring.ErrNotFound, "nothing is stashed when the secret fails")
}

func TestSecretStashCommand_NoSecret(t *testing.T) {
	path, _ := writeProtectedBot(t)

	cmd := NewSecretCommand(testOptions(t, path))
	cmd.SetArgs([]string{"stash"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no secret to stash")
}

func TestSecretStashCommand_UnprotectedBot(t *testing.T) {
	path := writeSampleBot(t)
	opts := testOptions(t, path)
	require.NoError(t, opts.SetSecret("irrelevant"))

	cmd := NewSecretCommand(opts)
	cmd.SetArgs([]string{"stash"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not protected")
}

func TestSecretStashCommand_SecretFromEnv(t *testing.T) {
	path, secret := writeProtectedBot(t)
	opts := testOptions(t, path)
	t.Setenv(secretEnvVar, secret)

	cmd := NewSecretCommand(opts)
	cmd.SetArgs([]string{"stash"})

	require.NoError(t, cmd.Execute())
}

func TestSecretClearCommand(t *testing.T) {
	path, secret := writeProtectedBot(t)
	opts := testOptions(t, path)
	require.NoError(t, opts.SetSecret(secret))

	cmd := NewSecretCommand(opts)
	cmd.SetArgs([]string{"clear"})

	require.NoError(t, cmd.Execute())

	// The file is plaintext now and needs no secret.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hunter2")

	config, err := botfile.Load(path, "")
	require.NoError(t, err)
	assert.False(t, config.SecretEstablished())
}

func TestSecretClearCommand_RemovesStashedEntry(t *testing.T) {
	path, secret := writeProtectedBot(t)
	opts := testOptions(t, path)
	require.NoError(t, opts.SetSecret(secret))

	account, err := filepath.Abs(path)
	require.NoError(t, err)
	require.NoError(t, keyring.Set(keyringService, account, secret))

	cmd := NewSecretCommand(opts)
	cmd.SetArgs([]string{"clear"})
	require.NoError(t, cmd.Execute())

	_, err = keyring.Get(keyringService, account)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestSecretClearCommand_UnprotectedBotIsNoop(t *testing.T) {
	path := writeSampleBot(t)

	cmd := NewSecretCommand(testOptions(t, path))
	cmd.SetArgs([]string{"clear"})

	require.NoError(t, cmd.Execute())

	config, err := botfile.Load(path, "")
	require.NoError(t, err)
	assert.Len(t, config.Services, 2)
}
