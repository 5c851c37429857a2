package service

import (
	"context"
	"fmt"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/domain"
	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/id"
	"github.com/quillpress/quillpress-server/internal/store"
)

// UserService manages accounts.
type UserService struct {
	Deps
	hasher *auth.PasswordHasher
}

// NewUserService creates a user service.
func NewUserService(deps Deps, hasher *auth.PasswordHasher) *UserService {
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultParams)
	}
	return &UserService{Deps: deps.withDefaults(), hasher: hasher}
}

// CreateUserRequest contains the fields for a new account.
type CreateUserRequest struct {
	Email     string      `json:"email" format:"email" validate:"required,email,max=255" doc:"Unique email address"`
	Username  string      `json:"username" validate:"required,min=3,max=50,username" doc:"Unique username"`
	Password  string      `json:"password" validate:"required,min=8,max=1024" doc:"Plaintext password"`
	FirstName *string     `json:"first_name,omitempty" validate:"omitempty,max=100" doc:"First name"`
	LastName  *string     `json:"last_name,omitempty" validate:"omitempty,max=100" doc:"Last name"`
	Avatar    *string     `json:"avatar,omitempty" validate:"omitempty,url,max=2048" doc:"Avatar URL"`
	Bio       *string     `json:"bio,omitempty" validate:"omitempty,max=1000" doc:"Short biography"`
	Role      domain.Role `json:"role,omitempty" enum:"super_admin,author" validate:"omitempty,oneof=super_admin author" doc:"Defaults to author"`
	IsActive  *bool       `json:"is_active,omitempty" doc:"Defaults to true"`
}

// UpdateUserRequest carries the fields to change. Nil fields are left alone;
// an empty string clears a nullable profile field.
type UpdateUserRequest struct {
	Email     *string      `json:"email,omitempty" format:"email" validate:"omitnil,email,max=255" doc:"Unique email address"`
	Username  *string      `json:"username,omitempty" validate:"omitnil,min=3,max=50,username" doc:"Unique username"`
	Password  *string      `json:"password,omitempty" validate:"omitnil,min=8,max=1024" doc:"New password"`
	FirstName *string      `json:"first_name,omitempty" nullable:"true" validate:"omitempty,max=100" doc:"First name. Omitted or null keeps it, empty string clears it"`
	LastName  *string      `json:"last_name,omitempty" nullable:"true" validate:"omitempty,max=100" doc:"Last name. Omitted or null keeps it, empty string clears it"`
	Avatar    *string      `json:"avatar,omitempty" nullable:"true" validate:"omitempty,url,max=2048" doc:"Avatar URL. Omitted or null keeps it, empty string clears it"`
	Bio       *string      `json:"bio,omitempty" nullable:"true" validate:"omitempty,max=1000" doc:"Short biography. Omitted or null keeps it, empty string clears it"`
	Role      *domain.Role `json:"role,omitempty" enum:"super_admin,author" validate:"omitnil,oneof=super_admin author" doc:"Super admin only"`
	IsActive  *bool        `json:"is_active,omitempty" doc:"Super admin only"`
}

// Create adds an account. Super admin only.
func (s *UserService) Create(ctx context.Context, actor *domain.Actor, req CreateUserRequest) (*domain.User, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "users.create", err)
	}
	user, err := s.create(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, "users.create", err, "email", req.Email)
	}
	s.log(ctx).Info("User created", "user_id", user.ID, "role", user.Role, "by", actor.ID)
	return user, nil
}

// BootstrapAdmin creates the first super admin. It refuses once any super
// admin exists. The count and the insert are not atomic, so concurrent
// bootstraps against an empty store can both succeed.
func (s *UserService) BootstrapAdmin(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	n, err := s.Store.CountUsersByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return nil, s.fail(ctx, "users.bootstrap", err)
	}
	if n > 0 {
		return nil, s.fail(ctx, "users.bootstrap", domainerrors.ConstraintViolation("a super admin already exists"))
	}

	req.Role = domain.RoleSuperAdmin
	active := true
	req.IsActive = &active

	user, err := s.create(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, "users.bootstrap", err, "email", req.Email)
	}
	s.log(ctx).Info("Super admin bootstrapped", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserService) create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := s.Validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleAuthor
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    emptyToNil(req.FirstName),
		LastName:     emptyToNil(req.LastName),
		Avatar:       emptyToNil(req.Avatar),
		Bio:          emptyToNil(req.Bio),
		Role:         role,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user.Sanitized(), nil
}

// Update applies the present fields. The user themself or a super admin may
// update; only a super admin may change role or is_active.
func (s *UserService) Update(ctx context.Context, actor *domain.Actor, userID string, req UpdateUserRequest) (*domain.User, error) {
	if err := domain.Authorize(actor, userID, domain.AccessOwner); err != nil {
		return nil, s.fail(ctx, "users.update", err, "user_id", userID)
	}
	if (req.Role != nil || req.IsActive != nil) && !actor.IsSuperAdmin() {
		return nil, s.fail(ctx, "users.update",
			domainerrors.PermissionDenied("only a super admin can change role or active status"), "user_id", userID)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "users.update", err, "user_id", userID)
	}

	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "users.update", translate(err, "user"), "user_id", userID)
	}

	applyString(&user.Email, req.Email)
	applyString(&user.Username, req.Username)
	applyNullable(&user.FirstName, req.FirstName)
	applyNullable(&user.LastName, req.LastName)
	applyNullable(&user.Avatar, req.Avatar)
	applyNullable(&user.Bio, req.Bio)
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, s.fail(ctx, "users.update", fmt.Errorf("hash password: %w", err), "user_id", userID)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()

	if err := s.Store.UpdateUser(ctx, user); err != nil {
		return nil, s.fail(ctx, "users.update", translate(err, "user"), "user_id", userID)
	}
	return user.Sanitized(), nil
}

// Delete removes an account and, by cascade, its posts. Super admin only.
func (s *UserService) Delete(ctx context.Context, actor *domain.Actor, userID string) error {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return s.fail(ctx, "users.delete", err, "user_id", userID)
	}
	if err := s.Store.DeleteUser(ctx, userID); err != nil {
		return s.fail(ctx, "users.delete", translate(err, "user"), "user_id", userID)
	}
	s.log(ctx).Info("User deleted", "user_id", userID, "by", actor.ID)
	return nil
}

// PageQuery is the offset pagination input shared by list operations.
type PageQuery struct {
	Page  int `query:"page" minimum:"1" default:"1" validate:"omitempty,gte=1" doc:"Page number (1-based)"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10" validate:"omitempty,gte=1,lte=100" doc:"Items per page"`
}

func (q PageQuery) request() store.PageRequest {
	return store.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize()
}

// List returns a page of users. Super admin only.
func (s *UserService) List(ctx context.Context, actor *domain.Actor, q PageQuery) (*store.Page[*domain.User], error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "users.list", err)
	}
	if err := s.Validator.Validate(q); err != nil {
		return nil, s.fail(ctx, "users.list", err)
	}

	req := q.request()
	users, total, err := s.Store.ListUsers(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, "users.list", err)
	}
	for i, u := range users {
		users[i] = u.Sanitized()
	}
	page := store.NewPage(users, total, req)
	return &page, nil
}

// GetByID returns the user or nil when absent. The user themself or a super
// admin may look it up.
func (s *UserService) GetByID(ctx context.Context, actor *domain.Actor, userID string) (*domain.User, error) {
	if err := domain.Authorize(actor, userID, domain.AccessOwner); err != nil {
		return nil, s.fail(ctx, "users.getById", err, "user_id", userID)
	}
	user, err := nullIfMissing(s.Store.GetUser(ctx, userID))
	if err != nil {
		return nil, s.fail(ctx, "users.getById", err, "user_id", userID)
	}
	return user.Sanitized(), nil
}
