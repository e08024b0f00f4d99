package structs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is the persisted admin record.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`
	Country      string             `bson:"country" json:"country"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	LastLoginAt  *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Profile returns the client facing projection of the admin.
func (a *Admin) Profile() *AdminProfile {
	return &AdminProfile{
		ID:          a.ID.Hex(),
		Email:       a.Email,
		Role:        a.Role,
		IsActive:    a.IsActive,
		Name:        a.Name,
		Phone:       a.Phone,
		Country:     a.Country,
		Avatar:      a.Avatar,
		LastLoginAt: a.LastLoginAt,
	}
}

// IsAdminRole reports whether r is a role an admin may hold.
func IsAdminRole(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// AdminProfile is the admin as returned to clients and stored on requests.
type AdminProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"is_active"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Country     string     `json:"country"`
	Avatar      string     `json:"avatar"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AdminLoginResult is returned by a successful admin login.
type AdminLoginResult struct {
	Token string        `json:"token"`
	Admin *AdminProfile `json:"admin"`
}

// UpdateAdminRequest updates admin profile fields. Empty fields are left
// unchanged.
type UpdateAdminRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// CreateAdminRequest creates an admin account.
type CreateAdminRequest struct {
	Email    string
	Password string
	Name     string
	Role     Role
}

// DashboardStats summarizes store counts for the admin dashboard.
type DashboardStats struct {
	Users         int64 `json:"users"`
	VerifiedUsers int64 `json:"verified_users"`
	Admins        int64 `json:"admins"`
	MyListItems   int64 `json:"mylist_items"`
}
