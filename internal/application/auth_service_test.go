package application

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/mayakatsir/web-development-assignments/internal/domain/repository"
	"github.com/mayakatsir/web-development-assignments/internal/infrastructure/memory"
	"github.com/mayakatsir/web-development-assignments/pkg/helpers"
)

type authFixture struct {
	svc   *AuthService
	users *memory.UserRepository
	jwt   *helpers.JWTManager
	logs  *test.Hook
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	var n int
	jwtm := helpers.NewJWTManager("access", "refresh", 15*time.Minute, 7*24*time.Hour,
		helpers.WithClock(func() time.Time { return clock }),
		helpers.WithIDGenerator(func() string { n++; return "jti-" + strconv.Itoa(n) }),
	)
	users := memory.NewStore().Users()
	return &authFixture{
		svc:   NewAuthService(users, helpers.BcryptHasher{}, jwtm, logger),
		users: users,
		jwt:   jwtm,
		logs:  hook,
	}
}

func (f *authFixture) register(t *testing.T, username string) helpers.TokenPair {
	t.Helper()
	pair, err := f.svc.Register(context.Background(), RegisterInput{Username: username, Email: username + "@x.com", Password: "pw"})
	require.NoError(t, err)
	return pair
}

func (f *authFixture) tokensOf(t *testing.T, username string) []string {
	t.Helper()
	u, err := f.users.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	return u.RefreshTokens
}

func assertAppError(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err))
	assert.Equal(t, msg, MessageOf(err, ""))
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	pair := f.register(t, "alice")

	assert.NotEmpty(t, pair.AccessToken)
	claims, err := f.jwt.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	u, err := f.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, []string{pair.RefreshToken}, u.RefreshTokens)
	assert.NotEqual(t, "pw", u.Password)

	access, err := f.jwt.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, access.UserID)
}

func TestRegisterMissingFields(t *testing.T) {
	f := newAuthFixture(t)
	for _, in := range []RegisterInput{
		{Email: "a@x.com", Password: "pw"},
		{Username: "a", Password: "pw"},
		{Username: "a", Email: "a@x.com"},
	} {
		_, err := f.svc.Register(context.Background(), in)
		assertAppError(t, err, KindValidation, MsgRegisterMissing)
	}
	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

// Registration tells a caller that a username exists, unlike login.
func TestRegisterDuplicateUsernameRevealsExistence(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice")

	_, err := f.svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "other@x.com", Password: "pw2"})
	assertAppError(t, err, KindConflict, "username: alice already exists")

	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

type failingHasher struct{ helpers.BcryptHasher }

func (failingHasher) Hash(string) (string, error) { return "", errors.New("no entropy") }

type failingIssuer struct{ *helpers.JWTManager }

func (failingIssuer) IssuePair(string) (helpers.TokenPair, error) {
	return helpers.TokenPair{}, errors.New("signer down")
}

func TestRegisterInternalFailureLeavesNoUser(t *testing.T) {
	for name, mutate := range map[string]func(*authFixture){
		"hash":  func(f *authFixture) { f.svc.Hasher = failingHasher{} },
		"issue": func(f *authFixture) { f.svc.Tokens = failingIssuer{f.jwt} },
	} {
		t.Run(name, func(t *testing.T) {
			f := newAuthFixture(t)
			mutate(f)

			_, err := f.svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw"})
			assertAppError(t, err, KindInternal, MsgRegistrationFailed)

			exists, err := f.users.UsernameExists(context.Background(), "alice")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestLoginAddsSession(t *testing.T) {
	f := newAuthFixture(t)
	first := f.register(t, "alice")

	pair, err := f.svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, pair.RefreshToken)
	assert.Equal(t, []string{first.RefreshToken, pair.RefreshToken}, f.tokensOf(t, "alice"))
}

func TestLoginBadCredentialsAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice")

	_, errWrongPw := f.svc.Login(context.Background(), "alice", "nope")
	_, errNoUser := f.svc.Login(context.Background(), "mallory", "pw")

	assertAppError(t, errWrongPw, KindAuthentication, MsgInvalidCredentials)
	assertAppError(t, errNoUser, KindAuthentication, MsgInvalidCredentials)
	assert.Len(t, f.tokensOf(t, "alice"), 1)
}

func TestLoginMissingFields(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), "", "pw")
	assertAppError(t, err, KindValidation, MsgLoginMissing)
	_, err = f.svc.Login(context.Background(), "alice", "")
	assertAppError(t, err, KindValidation, MsgLoginMissing)
}

func TestLoginCorruptHashIsInternal(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice")
	u, err := f.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	u.Password = "garbage"
	require.NoError(t, f.users.Save(context.Background(), u))

	_, err = f.svc.Login(context.Background(), "alice", "pw")
	assertAppError(t, err, KindInternal, MsgLoginFailed)
	assert.ErrorIs(t, err, helpers.ErrCorruptCredential)
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice")
	other, err := f.svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, []string{other.RefreshToken, rotated.RefreshToken}, f.tokensOf(t, "alice"))

	_, err = f.svc.Refresh(context.Background(), reg.RefreshToken)
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)
	assert.Empty(t, f.tokensOf(t, "alice"))

	_, err = f.svc.Refresh(context.Background(), rotated.RefreshToken)
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)

	var warned bool
	for _, e := range f.logs.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["user_id"] != nil {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRefreshRejectsBadInput(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice")

	_, err := f.svc.Refresh(context.Background(), "")
	assertAppError(t, err, KindValidation, MsgRefreshRequired)

	_, err = f.svc.Refresh(context.Background(), "garbage")
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)

	_, err = f.svc.Refresh(context.Background(), reg.AccessToken)
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)

	assert.Equal(t, []string{reg.RefreshToken}, f.tokensOf(t, "alice"))
}

func TestRefreshUnknownUser(t *testing.T) {
	f := newAuthFixture(t)
	pair, err := f.jwt.IssuePair("ghost")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)
}

// racingUsers reports the token as already rotated away, as a concurrent
// refresh of the same token would.
type racingUsers struct {
	*memory.UserRepository
}

func (racingUsers) RotateRefreshToken(context.Context, string, string, string) error {
	return repo.ErrRefreshTokenNotActive
}

func TestRefreshLostRaceRevokes(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice")
	f.svc.Users = racingUsers{f.users}

	_, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)
	assert.Empty(t, f.tokensOf(t, "alice"))
}

func TestConcurrentRefreshOnlyOneWins(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice")

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Refresh(context.Background(), reg.RefreshToken)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
		}
	}
	assert.LessOrEqual(t, ok, 1)
	assert.LessOrEqual(t, len(f.tokensOf(t, "alice")), 1)
}

func TestLogoutRemovesOnlyThatToken(t *testing.T) {
	f := newAuthFixture(t)
	a := f.register(t, "alice")
	b, err := f.svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), a.RefreshToken))
	assert.Equal(t, []string{b.RefreshToken}, f.tokensOf(t, "alice"))

	// second logout with the same token still succeeds
	require.NoError(t, f.svc.Logout(context.Background(), a.RefreshToken))
	assert.Equal(t, []string{b.RefreshToken}, f.tokensOf(t, "alice"))
}

func TestLogoutEdgeCases(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Logout(context.Background(), "")
	assertAppError(t, err, KindValidation, MsgRefreshRequired)

	err = f.svc.Logout(context.Background(), "garbage")
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)

	ghost, err := f.jwt.IssuePair("ghost")
	require.NoError(t, err)
	assert.NoError(t, f.svc.Logout(context.Background(), ghost.RefreshToken))
}

func TestBobScenario(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccessToken)
	require.NotEmpty(t, reg.RefreshToken)

	login, err := f.svc.Login(ctx, "bob", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, login.RefreshToken)
	assert.Contains(t, f.tokensOf(t, "bob"), reg.RefreshToken)

	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assertAppError(t, err, KindAuthentication, MsgInvalidRefresh)
	assert.Empty(t, f.tokensOf(t, "bob"))
}

type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {}, nil
}

func TestAuthFlowsTakeLocks(t *testing.T) {
	f := newAuthFixture(t)
	locker := &recordingLocker{}
	f.svc.Locker = locker

	reg := f.register(t, "alice")
	u, err := f.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), rotated.RefreshToken))

	assert.Equal(t, []string{"register:alice", "user:" + u.ID, "user:" + u.ID}, locker.keys)

	locker.err = errors.New("redis down")
	_, err = f.svc.Register(context.Background(), RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"})
	assertAppError(t, err, KindInternal, MsgRegistrationFailed)
}

type recordingNotifier struct {
	welcomed []string
	revoked  []string
	err      error
}

func (n *recordingNotifier) Welcome(_ context.Context, username, _ string) error {
	n.welcomed = append(n.welcomed, username)
	return n.err
}

func (n *recordingNotifier) SessionsRevoked(_ context.Context, username, _ string) error {
	n.revoked = append(n.revoked, username)
	return n.err
}

func TestNotifications(t *testing.T) {
	f := newAuthFixture(t)
	n := &recordingNotifier{err: errors.New("queue down")}
	f.svc.Notifier = n

	reg := f.register(t, "alice")
	_, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	_, err = f.svc.Refresh(context.Background(), reg.RefreshToken)
	require.Error(t, err)

	assert.Equal(t, []string{"alice"}, n.welcomed)
	assert.Equal(t, []string{"alice"}, n.revoked)
}
