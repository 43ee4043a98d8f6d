package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"username": "coach", "exp": exp.Unix()})

	claims, err := InspectToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "coach", claims.Username)
	assert.True(t, claims.ExpiresAt.Equal(exp))

	_, err = InspectToken("not-a-jwt")
	assert.Error(t, err)
}

func TestSession_SignInUsesClaims(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"username": "coach", "exp": time.Now().Add(time.Hour).Unix()})

	s := New()
	s.SignIn(tok, "")
	assert.True(t, s.Authenticated)
	assert.Equal(t, "coach", s.Username)
	assert.False(t, s.ExpiresAt.IsZero())

	s.SignOut()
	assert.False(t, s.Authenticated)
	assert.Empty(t, s.Token)
	assert.NotEmpty(t, s.ID)
}

func TestBinding_BearerToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10, time.Hour)

	b := Binding{Store: store, ID: "missing"}
	tok, err := b.BearerToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	s := New()
	s.SignIn("opaque-token", "coach")
	require.NoError(t, store.Save(ctx, s))

	b = Binding{Store: store, ID: s.ID}
	tok, err = b.BearerToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", tok)
	assert.True(t, b.Authenticated(ctx))

	s.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, s))
	tok, err = b.BearerToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.False(t, b.Authenticated(ctx))
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, time.Hour)
	s := New()
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// fakeRedis is an in-process RedisClient
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := NewRedisStore(fake, 24*time.Hour)

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := New()
	s.SignIn("opaque-token", "coach")
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, 24*time.Hour, fake.ttls[keyPrefix+s.ID])

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", got.Token)
	assert.Equal(t, "coach", got.Username)
	assert.True(t, got.Authenticated)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	fake := newFakeRedis()
	fake.data[keyPrefix+"bad"] = "{not json"

	_, err := NewRedisStore(fake, time.Hour).Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
