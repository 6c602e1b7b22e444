package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	repo "github.com/mayakatsir/web-development-assignments/internal/domain/repository"
	"github.com/mayakatsir/web-development-assignments/pkg/helpers"
	"github.com/mayakatsir/web-development-assignments/pkg/metrics"
)

// Client-facing messages of the auth flows.
const (
	MsgRegisterMissing    = "body param is missing (username or email or password)"
	MsgLoginMissing       = "body param is missing (username or password)"
	MsgInvalidCredentials = "Invalid username or password"
	MsgRegistrationFailed = "Registration failed"
	MsgLoginFailed        = "Login failed"
	MsgRefreshRequired    = "Refresh token is required"
	MsgInvalidRefresh     = "Invalid Refresh token"
	MsgLoggedOut          = "Logged out successfully"
)

func msgUsernameTaken(username string) string {
	return "username: " + username + " already exists"
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

type TokenIssuer interface {
	IssuePair(userID string) (helpers.TokenPair, error)
	ParseRefreshToken(token string) (*helpers.Claims, error)
}

// Locker serializes work on one key across processes. helpers.RedisLocker implements it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Notifier sends account emails. mailer.Notifier implements it.
type Notifier interface {
	Welcome(ctx context.Context, username, email string) error
	SessionsRevoked(ctx context.Context, username, email string) error
}

// AuthService runs register, login, refresh and logout. Locker and Notifier
// are optional.
type AuthService struct {
	Users    repo.UserRepository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Locker   Locker
	Notifier Notifier
	Logger   *logrus.Logger

	newID func() string
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, Logger: logger, newID: uuid.NewString}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates the user and its first session. The id is assigned and the
// pair issued before anything is written, so every failure leaves no user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (helpers.TokenPair, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return s.fail("register", "missing_field", newError(KindValidation, MsgRegisterMissing, nil))
	}
	log := s.Logger.WithField("username", in.Username)

	unlock, err := s.lock(ctx, "register:"+in.Username)
	if err != nil {
		log.WithError(err).Error("register lock failed")
		return s.fail("register", "error", newError(KindInternal, MsgRegistrationFailed, err))
	}
	defer unlock()

	exists, err := s.Users.UsernameExists(ctx, in.Username)
	if err != nil {
		log.WithError(err).Error("username lookup failed")
		return s.fail("register", "error", newError(KindInternal, MsgRegistrationFailed, err))
	}
	if exists {
		return s.fail("register", "conflict", newError(KindConflict, msgUsernameTaken(in.Username), nil))
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.WithError(err).Error("hash password failed")
		return s.fail("register", "error", newError(KindInternal, MsgRegistrationFailed, err))
	}

	id := s.newID()
	pair, err := s.Tokens.IssuePair(id)
	if err != nil {
		log.WithError(err).Error("issue tokens failed")
		return s.fail("register", "error", newError(KindInternal, MsgRegistrationFailed, err))
	}

	u := &entity.User{
		ID:            id,
		Username:      in.Username,
		Email:         in.Email,
		Password:      hash,
		RefreshTokens: []string{pair.RefreshToken},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return s.fail("register", "conflict", newError(KindConflict, msgUsernameTaken(in.Username), err))
		}
		log.WithError(err).Error("create user failed")
		return s.fail("register", "error", newError(KindInternal, MsgRegistrationFailed, err))
	}

	log.WithField("user_id", id).Info("user registered")
	s.notify(ctx, u, "welcome", s.notifierWelcome)
	metrics.ObserveAuthEvent("register", "success")
	return pair, nil
}

// Login verifies the credentials and adds a new session next to the existing ones.
func (s *AuthService) Login(ctx context.Context, username, password string) (helpers.TokenPair, error) {
	if username == "" || password == "" {
		return s.fail("login", "missing_field", newError(KindValidation, MsgLoginMissing, nil))
	}
	log := s.Logger.WithField("username", username)

	u, err := s.Users.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return s.fail("login", "invalid_credentials", newError(KindAuthentication, MsgInvalidCredentials, nil))
	}
	if err != nil {
		log.WithError(err).Error("find user failed")
		return s.fail("login", "error", newError(KindInternal, MsgLoginFailed, err))
	}

	ok, err := s.Hasher.Verify(password, u.Password)
	if err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("verify password failed")
		return s.fail("login", "error", newError(KindInternal, MsgLoginFailed, err))
	}
	if !ok {
		return s.fail("login", "invalid_credentials", newError(KindAuthentication, MsgInvalidCredentials, nil))
	}

	pair, err := s.Tokens.IssuePair(u.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("issue tokens failed")
		return s.fail("login", "error", newError(KindInternal, MsgLoginFailed, err))
	}
	if err := s.Users.AddRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("store refresh token failed")
		return s.fail("login", "error", newError(KindInternal, MsgLoginFailed, err))
	}

	metrics.ObserveAuthEvent("login", "success")
	return pair, nil
}

// Refresh rotates token into a new pair. A structurally valid token that is no
// longer in the user's set revokes every session of that user.
func (s *AuthService) Refresh(ctx context.Context, token string) (helpers.TokenPair, error) {
	if token == "" {
		return s.fail("refresh", "missing_field", newError(KindValidation, MsgRefreshRequired, nil))
	}
	claims, err := s.Tokens.ParseRefreshToken(token)
	if err != nil {
		return s.fail("refresh", "invalid_token", newError(KindAuthentication, MsgInvalidRefresh, err))
	}
	log := s.Logger.WithField("user_id", claims.UserID)

	unlock, err := s.lock(ctx, "user:"+claims.UserID)
	if err != nil {
		log.WithError(err).Error("refresh lock failed")
		return s.fail("refresh", "error", newError(KindInternal, MsgInvalidRefresh, err))
	}
	defer unlock()

	u, err := s.Users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return s.fail("refresh", "unknown_user", newError(KindAuthentication, MsgInvalidRefresh, err))
	}
	if err != nil {
		log.WithError(err).Error("find user failed")
		return s.fail("refresh", "error", newError(KindInternal, MsgInvalidRefresh, err))
	}

	if !u.HasRefreshToken(token) {
		return s.revokeAll(ctx, u)
	}

	pair, err := s.Tokens.IssuePair(u.ID)
	if err != nil {
		log.WithError(err).Error("issue tokens failed")
		return s.fail("refresh", "error", newError(KindInternal, MsgInvalidRefresh, err))
	}
	err = s.Users.RotateRefreshToken(ctx, u.ID, token, pair.RefreshToken)
	if errors.Is(err, repo.ErrRefreshTokenNotActive) {
		// consumed by a concurrent refresh between the read and the update
		return s.revokeAll(ctx, u)
	}
	if err != nil {
		log.WithError(err).Error("rotate refresh token failed")
		return s.fail("refresh", "error", newError(KindInternal, MsgInvalidRefresh, err))
	}

	metrics.ObserveAuthEvent("refresh", "success")
	return pair, nil
}

func (s *AuthService) revokeAll(ctx context.Context, u *entity.User) (helpers.TokenPair, error) {
	log := s.Logger.WithField("user_id", u.ID)
	if err := s.Users.ClearRefreshTokens(ctx, u.ID); err != nil {
		log.WithError(err).Error("revoke sessions failed")
		return s.fail("refresh", "error", newError(KindInternal, MsgInvalidRefresh, err))
	}
	log.Warn("refresh token reuse detected; all sessions revoked")
	metrics.ObserveSessionRevocation()
	s.notify(ctx, u, "sessions_revoked", s.notifierRevoked)
	return s.fail("refresh", "reuse_detected", newError(KindAuthentication, MsgInvalidRefresh, nil))
}

// Logout removes exactly one refresh token. Unknown users and tokens that are
// already gone still count as a successful logout.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		_, err := s.fail("logout", "missing_field", newError(KindValidation, MsgRefreshRequired, nil))
		return err
	}
	claims, err := s.Tokens.ParseRefreshToken(token)
	if err != nil {
		_, err = s.fail("logout", "invalid_token", newError(KindAuthentication, MsgInvalidRefresh, err))
		return err
	}
	log := s.Logger.WithField("user_id", claims.UserID)

	unlock, err := s.lock(ctx, "user:"+claims.UserID)
	if err != nil {
		log.WithError(err).Error("logout lock failed")
		_, err = s.fail("logout", "error", newError(KindInternal, MsgInvalidRefresh, err))
		return err
	}
	defer unlock()

	err = s.Users.RemoveRefreshToken(ctx, claims.UserID, token)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("remove refresh token failed")
		_, err = s.fail("logout", "error", newError(KindInternal, MsgInvalidRefresh, err))
		return err
	}
	metrics.ObserveAuthEvent("logout", "success")
	return nil
}

func (s *AuthService) fail(flow, outcome string, err *Error) (helpers.TokenPair, error) {
	metrics.ObserveAuthEvent(flow, outcome)
	return helpers.TokenPair{}, err
}

func (s *AuthService) lock(ctx context.Context, key string) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	return s.Locker.Lock(ctx, key)
}

func (s *AuthService) notifierWelcome(ctx context.Context, u *entity.User) error {
	return s.Notifier.Welcome(ctx, u.Username, u.Email)
}

func (s *AuthService) notifierRevoked(ctx context.Context, u *entity.User) error {
	return s.Notifier.SessionsRevoked(ctx, u.Username, u.Email)
}

// notify is best effort; a failure is logged and never changes the flow result.
func (s *AuthService) notify(ctx context.Context, u *entity.User, kind string, send func(context.Context, *entity.User) error) {
	if s.Notifier == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := send(c, u); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "email_kind": kind}).Warn("publish notification failed")
	}
}
