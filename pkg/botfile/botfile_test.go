package botfile

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/botcfg/pkg/encrypt"
	"github.com/systmms/botcfg/pkg/service"
)

func testKey(t *testing.T) string {
	t.Helper()
	key, err := encrypt.GenerateKey()
	require.NoError(t, err)
	return key
}

func endpointService(name string) *service.Endpoint {
	return &service.Endpoint{
		Base:        service.Base{Type: service.KindEndpoint, Name: name},
		AppID:       "app-" + name,
		AppPassword: "password-" + name,
		Endpoint:    "https://example.org/" + name,
	}
}

func TestConnectService_AssignsShortID(t *testing.T) {
	t.Parallel()

	config := New()
	id, err := config.ConnectService(endpointService("prod"))
	require.NoError(t, err)

	n, err := strconv.Atoi(id)
	require.NoError(t, err, "id should be a decimal string")
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 256)

	require.Len(t, config.Services, 1)
	assert.Equal(t, id, config.Services[0].Common().ID)
}

func TestConnectService_PresetIDIsReplaced(t *testing.T) {
	t.Parallel()

	config := New()
	svc := endpointService("prod")
	svc.ID = "preset"

	id, err := config.ConnectService(svc)
	require.NoError(t, err)
	assert.NotEqual(t, "preset", id)
	assert.Equal(t, id, svc.ID)
}

func TestConnectService_UniqueIDs(t *testing.T) {
	t.Parallel()

	config := New(WithRand(rand.New(rand.NewPCG(1, 1))))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := config.ConnectService(endpointService("svc" + strconv.Itoa(i)))
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}
}

func TestConnectService_DeterministicWithSeededSource(t *testing.T) {
	t.Parallel()

	first := New(WithRand(rand.New(rand.NewPCG(42, 0))))
	second := New(WithRand(rand.New(rand.NewPCG(42, 0))))

	for i := 0; i < 10; i++ {
		name := "svc" + strconv.Itoa(i)
		idA, err := first.ConnectService(endpointService(name))
		require.NoError(t, err)
		idB, err := second.ConnectService(endpointService(name))
		require.NoError(t, err)
		assert.Equal(t, idA, idB)
	}
}

func TestConnectService_NilService(t *testing.T) {
	t.Parallel()

	config := New()
	_, err := config.ConnectService(nil)
	assert.ErrorIs(t, err, ErrMissingArgument)
	assert.Empty(t, config.Services)
}

func TestConnectService_Duplicate(t *testing.T) {
	t.Parallel()

	config := New()
	id, err := config.ConnectService(endpointService("prod"))
	require.NoError(t, err)

	dup := endpointService("prod-again")
	dup.ID = id
	_, err = config.ConnectService(dup)
	assert.ErrorIs(t, err, ErrDuplicateService)
	assert.Len(t, config.Services, 1, "failed connect must leave the registry unchanged")

	// Same preset id under a different type is not a duplicate.
	file := &service.File{Base: service.Base{Type: service.KindFile, ID: id}, Path: "a.qna"}
	_, err = config.ConnectService(file)
	assert.NoError(t, err)
}

func TestConnectService_IDSpaceExhausted(t *testing.T) {
	t.Parallel()

	config := New(WithRand(rand.New(rand.NewPCG(7, 7))))
	for i := 0; i < 256; i++ {
		_, err := config.ConnectService(endpointService("svc" + strconv.Itoa(i)))
		require.NoError(t, err, "service %d", i)
	}

	// The 257th connect must fail in bounded time instead of spinning on
	// random draws forever.
	_, err := config.ConnectService(endpointService("one-too-many"))
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
	assert.Len(t, config.Services, 256)
}

func TestFindService(t *testing.T) {
	t.Parallel()

	config := New()
	id, err := config.ConnectService(endpointService("prod"))
	require.NoError(t, err)

	assert.NotNil(t, config.FindService(id))
	assert.Nil(t, config.FindService("no-such-id"))

	assert.NotNil(t, config.FindServiceByNameOrID(id))
	assert.NotNil(t, config.FindServiceByNameOrID("prod"))
	assert.Nil(t, config.FindServiceByNameOrID("absent"))
}

func TestFindServiceByNameOrID_DocumentOrder(t *testing.T) {
	t.Parallel()

	config := New()
	first := endpointService("shared")
	second := endpointService("shared")
	_, err := config.ConnectService(first)
	require.NoError(t, err)
	_, err = config.ConnectService(second)
	require.NoError(t, err)

	assert.Same(t, first, config.FindServiceByNameOrID("shared"))
}

func TestDisconnectServiceByNameOrID(t *testing.T) {
	t.Parallel()

	config := New()
	_, err := config.ConnectService(endpointService("prod"))
	require.NoError(t, err)

	removed, err := config.DisconnectServiceByNameOrID("prod")
	require.NoError(t, err)
	assert.Equal(t, "prod", removed.Common().Name)
	assert.Empty(t, config.Services)

	_, err = config.DisconnectServiceByNameOrID("prod")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDisconnectService_AbsentIDIsNoOp(t *testing.T) {
	t.Parallel()

	config := New()
	id, err := config.ConnectService(endpointService("prod"))
	require.NoError(t, err)

	config.DisconnectService("not-an-id")
	assert.Len(t, config.Services, 1)

	config.DisconnectService(id)
	assert.Empty(t, config.Services)
}

func TestValidateSecret_EstablishAndProve(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	config := New()

	require.False(t, config.SecretEstablished())
	require.NoError(t, config.ValidateSecret(key))
	assert.True(t, config.SecretEstablished())

	// The same secret keeps proving itself.
	assert.NoError(t, config.ValidateSecret(key))

	// A different secret is rejected uniformly.
	assert.ErrorIs(t, config.ValidateSecret(testKey(t)), ErrInvalidSecret)
	assert.ErrorIs(t, config.ValidateSecret("garbage"), ErrInvalidSecret)
}

func TestValidateSecret_Empty(t *testing.T) {
	t.Parallel()

	config := New()
	assert.ErrorIs(t, config.ValidateSecret(""), ErrMissingSecret)
	assert.False(t, config.SecretEstablished(), "a failed validation must not establish a token")
}

func TestClearSecret(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	config := New()
	require.NoError(t, config.ValidateSecret(key))

	config.ClearSecret()
	assert.False(t, config.SecretEstablished())

	// A new secret can be established afterwards.
	assert.NoError(t, config.ValidateSecret(testKey(t)))
}

func TestEncryptDecrypt_DocumentRoundtrip(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	config := New()
	config.Name = "roundtrip"
	_, err := config.ConnectService(endpointService("prod"))
	require.NoError(t, err)
	_, err = config.ConnectService(&service.Luis{
		Base:            service.Base{Type: service.KindLuis, Name: "nlu"},
		AuthoringKey:    "ak",
		SubscriptionKey: "sk",
	})
	require.NoError(t, err)

	before, err := json.Marshal(config)
	require.NoError(t, err)

	require.NoError(t, config.Encrypt(key))
	assert.NotEqual(t, "ak", config.Services[1].(*service.Luis).AuthoringKey)

	require.NoError(t, config.Decrypt(key))
	after, err := json.Marshal(config)
	require.NoError(t, err)

	// Field-for-field identical apart from the freshly established token.
	assert.JSONEq(t, replaceSecretKey(t, string(before), config.token.Ciphertext()), string(after))
}

func TestEncrypt_InvalidSecretTouchesNoService(t *testing.T) {
	t.Parallel()

	config := New()
	require.NoError(t, config.ValidateSecret(testKey(t)))
	svc := endpointService("prod")
	_, err := config.ConnectService(svc)
	require.NoError(t, err)

	err = config.Encrypt(testKey(t))
	assert.ErrorIs(t, err, ErrInvalidSecret)
	assert.Equal(t, "password-prod", svc.AppPassword, "validation failure must abort before any field is encrypted")
}

func replaceSecretKey(t *testing.T, doc, secretKey string) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &m))
	m["secretKey"] = secretKey
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}
