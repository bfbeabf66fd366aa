package services

import (
	"context"
	"errors"

	"taskboard.com/taskboard/internal/auth"
	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

type AuthService struct {
	users       *repository.UserRepository
	issuer      *auth.TokenIssuer
	revocations auth.RevocationStore
}

func NewAuthService(users *repository.UserRepository, issuer *auth.TokenIssuer, revocations auth.RevocationStore) *AuthService {
	return &AuthService{users: users, issuer: issuer, revocations: revocations}
}

// Login exchanges credentials for a bearer token. Unknown emails, wrong
// passwords and inactive accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// IssueFor signs a token for an already verified user, e.g. right after
// registration.
func (s *AuthService) IssueFor(user *model.User) (*dto.TokenResponse, error) {
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*dto.TokenResponse, error) {
	token, claims, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// Authenticate resolves a bearer token to the live, active user it was
// issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *auth.Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, apperrors.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrUnauthenticated
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	return user, claims, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.ErrUnauthenticated
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
