package service

import (
	"context"
	"errors"

	"github.com/ncobase/shopfront/data/repository"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/structs"
)

// AdminService handles admin accounts and the admin dashboard.
type AdminService struct {
	*Deps
}

// NewAdminService creates a new admin service.
func NewAdminService(d *Deps) *AdminService {
	return &AdminService{Deps: d}
}

// Login verifies admin credentials and mints an admin token.
func (s *AdminService) Login(ctx context.Context, req *structs.LoginRequest) (*structs.AdminLoginResult, error) {
	if err := requireFields(field{"email", req.Email}, field{"password", req.Password}); err != nil {
		return nil, err
	}

	admin, err := s.Admins.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ecode.InvalidCredentials()
		}
		return nil, ecode.Dependency("failed to look up admin", err)
	}
	if !admin.IsActive {
		return nil, ecode.Forbidden(ecode.Text(ecode.UserDisabled))
	}
	if !s.Hasher.ComparePassword(admin.PasswordHash, req.Password) {
		return nil, ecode.InvalidCredentials()
	}

	id := admin.ID.Hex()
	token, err := s.Tokens.Admin.Generate(id, string(admin.Role))
	if err != nil {
		return nil, ecode.Dependency("failed to sign admin token", err)
	}

	now := s.now()
	if err := s.Admins.TouchLogin(ctx, id, now); err != nil {
		return nil, ecode.Dependency("failed to record login", err)
	}
	admin.LastLoginAt = &now

	s.Logger.Info(ctx, "admin logged in", "admin_id", id, "role", admin.Role)
	return &structs.AdminLoginResult{Token: token, Admin: admin.Profile()}, nil
}

// Find loads an admin for the auth gate.
func (s *AdminService) Find(ctx context.Context, adminID string) (*structs.Admin, error) {
	admin, err := s.Admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.Unauthorized(ecode.NotExist("admin"))
		}
		return nil, ecode.Dependency("failed to look up admin", err)
	}
	return admin, nil
}

// Profile returns the profile of an admin.
func (s *AdminService) Profile(ctx context.Context, adminID string) (*structs.AdminProfile, error) {
	admin, err := s.Admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.NotFound(ecode.NotExist("admin"))
		}
		return nil, ecode.Dependency("failed to look up admin", err)
	}
	return admin.Profile(), nil
}

// UpdateProfile changes name, phone or country of an admin.
func (s *AdminService) UpdateProfile(ctx context.Context, adminID string, req *structs.UpdateAdminRequest) (*structs.AdminProfile, error) {
	admin, err := s.Admins.UpdateProfile(ctx, adminID, *req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.NotFound(ecode.NotExist("admin"))
		}
		return nil, ecode.Dependency("failed to update admin", err)
	}
	return admin.Profile(), nil
}

// Create creates an active admin account.
func (s *AdminService) Create(ctx context.Context, req *structs.CreateAdminRequest) (*structs.AdminProfile, error) {
	if err := requireFields(
		field{"email", req.Email},
		field{"password", req.Password},
		field{"name", req.Name},
	); err != nil {
		return nil, err
	}
	addr := normalizeEmail(req.Email)
	if err := checkEmail(addr); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = structs.RoleAdmin
	}
	if !structs.IsAdminRole(role) {
		return nil, ecode.Validation(ecode.FieldIsInvalid("role")).
			WithFields(map[string]string{"role": "must be admin or superadmin"})
	}

	hash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		return nil, hashError(err)
	}

	admin, err := s.Admins.Create(ctx, &structs.Admin{
		Email:        addr,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Name:         req.Name,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.Conflict(ecode.AlreadyExist("email"))
		}
		return nil, ecode.Dependency("failed to create admin", err)
	}
	return admin.Profile(), nil
}

// User returns the profile of any user.
func (s *AdminService) User(ctx context.Context, userID string) (*structs.UserProfile, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.NotFound(ecode.NotExist("user"))
		}
		return nil, ecode.Dependency("failed to look up user", err)
	}
	return user.Profile(), nil
}

// DashboardStats counts users, admins and wish-list items.
func (s *AdminService) DashboardStats(ctx context.Context) (*structs.DashboardStats, error) {
	var (
		stats structs.DashboardStats
		err   error
	)
	if stats.Users, err = s.Users.Count(ctx, false); err != nil {
		return nil, ecode.Dependency("failed to count users", err)
	}
	if stats.VerifiedUsers, err = s.Users.Count(ctx, true); err != nil {
		return nil, ecode.Dependency("failed to count users", err)
	}
	if stats.Admins, err = s.Admins.Count(ctx); err != nil {
		return nil, ecode.Dependency("failed to count admins", err)
	}
	if stats.MyListItems, err = s.MyList.Count(ctx); err != nil {
		return nil, ecode.Dependency("failed to count wish-list items", err)
	}
	return &stats, nil
}
