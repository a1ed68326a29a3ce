package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/validation"
)

type UserStore interface {
	listing.Source[domain.User, domain.UserFilter]
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	UpdateDeviceToken(ctx context.Context, userID int64, token string) error
	UpdateStatus(ctx context.Context, userID int64, status domain.AccountStatus) error
	UpdateRole(ctx context.Context, userID int64, role domain.Role) error
}

type UserService struct {
	store  UserStore
	hasher *PasswordHasher
	tokens *TokenIssuer
}

func NewUserService(store UserStore, hasher *PasswordHasher, tokens *TokenIssuer) *UserService {
	return &UserService{store: store, hasher: hasher, tokens: tokens}
}

type RegisterInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Mobile      string `json:"mobile" form:"mobile" validate:"required,mobile"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"min=6,max=72"`
	DeviceToken string `json:"deviceToken" form:"deviceToken"`
	AvatarURL   string `json:"-" form:"-"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Mobile:       in.Mobile,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		DeviceToken:  in.DeviceToken,
		AvatarURL:    in.AvatarURL,
		Role:         domain.RoleCustomer,
		Status:       domain.AccountActive,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: mobile %s is already registered", domain.ErrConflict, in.Mobile)
		}
		return nil, err
	}
	return u, nil
}

type SigninInput struct {
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signin checks credentials and issues a bearer token. Unknown mobiles are
// ErrNotFound; a wrong password or a disabled account is ErrForbidden.
func (s *UserService) Signin(ctx context.Context, in SigninInput) (string, *domain.User, error) {
	if err := validation.Struct(&in); err != nil {
		return "", nil, err
	}

	u, err := s.store.GetByMobile(ctx, strings.TrimSpace(in.Mobile))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return "", nil, err
	}
	if !s.hasher.Matches(u.PasswordHash, in.Password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
	}
	if !u.IsActive() {
		return "", nil, fmt.Errorf("%w: account is disabled", domain.ErrForbidden)
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, u, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.GetByID(ctx, userID)
}

func (s *UserService) ByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return s.store.GetByMobile(ctx, mobile)
}

// ProfileUpdate carries optional fields; empty values keep the stored ones.
type ProfileUpdate struct {
	Name      string `json:"name" form:"name" validate:"omitempty,max=100"`
	Email     string `json:"email" form:"email" validate:"omitempty,email"`
	AvatarURL string `json:"-" form:"-"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}

	if err := s.store.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type PasswordChange struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"min=6,max=72"`
}

func (s *UserService) UpdatePassword(ctx context.Context, userID int64, in PasswordChange) error {
	if err := validation.Struct(&in); err != nil {
		return err
	}

	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Matches(u.PasswordHash, in.OldPassword) {
		return fmt.Errorf("%w: old password does not match", domain.ErrForbidden)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, userID, hash)
}

func (s *UserService) UpdateDeviceToken(ctx context.Context, userID int64, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: deviceToken is required", domain.ErrInvalidArgument)
	}
	return s.store.UpdateDeviceToken(ctx, userID, token)
}

func (s *UserService) SetStatus(ctx context.Context, userID int64, status domain.AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown account status %q", domain.ErrInvalidArgument, status)
	}
	return s.store.UpdateStatus(ctx, userID, status)
}

// Promote grants the admin role to an existing user.
func (s *UserService) Promote(ctx context.Context, userID int64) error {
	return s.store.UpdateRole(ctx, userID, domain.RoleAdmin)
}

// IssueToken signs a token for an already-authenticated user.
func (s *UserService) IssueToken(u *domain.User) (string, error) {
	return s.tokens.Generate(u)
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter, page, pageSize int) (*listing.Result[domain.User], error) {
	return listing.List[domain.User, domain.UserFilter](ctx, s.store, f, page, pageSize)
}
