package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/lcree/backend/internal/infrastructure/auth"
)

// Service handles authentication and operator account management.
type Service struct {
	users identity.UserRepository
	audit audit.Repository
	jwt   *auth.JWTService
}

// NewService creates an identity service
func NewService(users identity.UserRepository, auditRepo audit.Repository, jwt *auth.JWTService) *Service {
	return &Service{users: users, audit: auditRepo, jwt: jwt}
}

// Login verifies credentials and issues an access token. The user row is
// saved even on failure so lockout counters persist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		return nil, shared.ErrUnauthorized
	}

	verifyErr := user.VerifyPassword(req.Password)
	if saveErr := s.users.Save(ctx, user); saveErr != nil {
		return nil, saveErr
	}
	if verifyErr != nil {
		return nil, verifyErr
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Insert(ctx, audit.NewRecord(
		audit.ActionUserLogin, &user.ID, "user", &user.ID,
		audit.Payload{"username": user.Username})); err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// CreateUser registers a new operator account
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest, actorID uuid.UUID) (*UserResponse, error) {
	user, err := identity.NewUser(req.Username, req.Password, identity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}
	user.DisplayName = req.DisplayName

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.audit.Insert(ctx, audit.NewRecord(
		audit.ActionCrudCreate, &actorID, "user", &user.ID,
		audit.Payload{"username": user.Username, "role": string(user.Role)})); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's own password after verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.VerifyPassword(req.CurrentPassword); err != nil {
		// Persist the failed-attempt counter before reporting the error.
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			return saveErr
		}
		return err
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// DeactivateUser disables an account. Admins cannot deactivate themselves.
func (s *Service) DeactivateUser(ctx context.Context, userID, actorID uuid.UUID) error {
	if userID == actorID {
		return shared.NewDomainError("SELF_DEACTIVATION", "Cannot deactivate your own account")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	prevStatus := user.Status
	user.Deactivate()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	return s.audit.Insert(ctx, audit.NewRecord(
		audit.ActionCrudUpdate, &actorID, "user", &user.ID,
		audit.Payload{"username": user.Username, "status": string(user.Status)}).
		WithBefore(audit.Payload{"status": string(prevStatus)}))
}

// GetUser returns one user
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsers returns users with pagination
func (s *Service) ListUsers(ctx context.Context, filter shared.Filter) ([]UserResponse, int64, error) {
	users, total, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses, total, nil
}
