package helpers

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestJWT(clock *fakeClock) *JWTManager {
	n := 0
	return NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour,
		WithClock(clock.Now),
		WithIDGenerator(func() string { n++; return "jti-" + strconv.Itoa(n) }),
	)
}

func TestIssuePairRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestJWT(clock)

	pair, err := m.IssuePair("user-1")
	require.NoError(t, err)

	access, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, clock.t.Add(15*time.Minute).Unix(), access.ExpiresAt.Unix())

	refresh, err := m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.UserID)
	assert.Equal(t, clock.t.Add(24*time.Hour).Unix(), refresh.ExpiresAt.Unix())
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestJWT(&fakeClock{t: time.Now()})
	pair, err := m.IssuePair("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPairsIssuedInSameSecondDiffer(t *testing.T) {
	m := newTestJWT(&fakeClock{t: time.Now()})
	a, err := m.IssuePair("user-1")
	require.NoError(t, err)
	b, err := m.IssuePair("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
	assert.NotEqual(t, a.AccessToken, b.AccessToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestJWT(clock)
	pair, err := m.IssuePair("user-1")
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestParseRejectsGarbageAndOtherAlgorithms(t *testing.T) {
	m := newTestJWT(&fakeClock{t: time.Now()})

	_, err := m.ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims := &Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ParseAccessToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)
	_, err = m.ParseAccessToken(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
