package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/password"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// TokenIssuer produces a signed token for a subject id.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

type UseCase struct {
	users  repository.UserRepository
	hasher password.Hasher
	tokens TokenIssuer
	trail  usecase.AuditTrail
	logger *zap.Logger
}

func New(users repository.UserRepository, hasher password.Hasher, tokens TokenIssuer, trail usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		trail:  trail,
		logger: logger,
	}
}

// Register creates an identity for the given credentials and returns a
// token for it. An email already present in the store fails with
// domain.ErrEmailTaken.
func (uc *UseCase) Register(ctx context.Context, email, plaintext string) (string, error) {
	if email == "" || plaintext == "" {
		return "", domain.NewError(domain.ErrCodeInvalid, "email and password are required")
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	digest, err := uc.hasher.Hash(plaintext)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: digest,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return "", err
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	uc.record(ctx, domain.AuditEvent{ActorID: user.ID, Action: domain.AuditUserRegistered})
	return token, nil
}

// Login verifies the credentials and returns a fresh token. An unknown
// email and a password mismatch fail with the identical
// domain.ErrInvalidCredentials so the response does not reveal which
// part was wrong.
func (uc *UseCase) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.record(ctx, domain.AuditEvent{Action: domain.AuditLoginFailed, Detail: "unknown email"})
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !uc.hasher.Verify(plaintext, user.PasswordHash) {
		uc.record(ctx, domain.AuditEvent{ActorID: user.ID, Action: domain.AuditLoginFailed, Detail: "password mismatch"})
		return "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	uc.record(ctx, domain.AuditEvent{ActorID: user.ID, Action: domain.AuditUserLogin})
	return token, nil
}

func (uc *UseCase) record(ctx context.Context, event domain.AuditEvent) {
	if uc.trail == nil {
		return
	}
	if err := uc.trail.Record(ctx, event); err != nil {
		uc.logger.Warn("failed to record audit event", zap.String("action", event.Action), zap.Error(err))
	}
}
