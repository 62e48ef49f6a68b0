package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/promayouf/storefront-backend/pkg/redis"
)

type fakeBlobStore struct {
	blobs   map[string]string
	lastTTL time.Duration
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string]string{}}
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) (string, error) {
	raw, ok := f.blobs[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return raw, nil
}

func (f *fakeBlobStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.blobs[key] = value.(string)
	f.lastTTL = ttl
	return nil
}

func (f *fakeBlobStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.blobs, key)
	}
	return nil
}

func (f *fakeBlobStore) CartKey(sessionID string) string {
	return "sf:cart:" + sessionID
}

func TestLoadMissingKeyYieldsFreshCart(t *testing.T) {
	t.Parallel()

	storage, err := NewRedisStorage(newFakeBlobStore(), time.Hour, "PayPal", nil)
	require.NoError(t, err)

	state, err := storage.Load(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Empty(t, state.Items)
	assert.Equal(t, "PayPal", state.PaymentMethod)
	assert.Equal(t, "0.00", state.TotalPrice)
}

func TestLoadCorruptBlobYieldsFreshCart(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	blobs.blobs[blobs.CartKey("sess")] = "{not json"

	storage, err := NewRedisStorage(blobs, time.Hour, "PayPal", nil)
	require.NoError(t, err)

	state, err := storage.Load(context.Background(), "sess")
	require.NoError(t, err)
	assert.Empty(t, state.Items)
	assert.Equal(t, "PayPal", state.PaymentMethod)
}

func TestLoadNormalizesPartialBlob(t *testing.T) {
	t.Parallel()

	// An old blob may predate some fields entirely.
	blobs := newFakeBlobStore()
	blobs.blobs[blobs.CartKey("sess")] = `{"cartItems":null,"paymentMethod":""}`

	storage, err := NewRedisStorage(blobs, time.Hour, "PayPal", nil)
	require.NoError(t, err)

	state, err := storage.Load(context.Background(), "sess")
	require.NoError(t, err)

	assert.NotNil(t, state.Items)
	assert.Equal(t, "PayPal", state.PaymentMethod)
	assert.Equal(t, "0.00", state.ItemsPrice)
	assert.Equal(t, "0.00", state.TotalPrice)
}

func TestSaveRoundTripsWithTTL(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	storage, err := NewRedisStorage(blobs, 30*time.Minute, "PayPal", nil)
	require.NoError(t, err)
	ctx := context.Background()

	state := NewState("PayPal")
	state.PaymentMethod = "Stripe"
	require.NoError(t, storage.Save(ctx, "sess", state))
	assert.Equal(t, 30*time.Minute, blobs.lastTTL)

	loaded, err := storage.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "Stripe", loaded.PaymentMethod)
}

func TestDeleteRemovesBlob(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	storage, err := NewRedisStorage(blobs, time.Hour, "PayPal", nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "sess", NewState("PayPal")))
	require.NoError(t, storage.Delete(ctx, "sess"))

	state, err := storage.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, state.Items)
}
