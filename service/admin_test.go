package service

import (
	"context"
	"testing"

	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/security/jwt"
	"github.com/ncobase/shopfront/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCreateAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Admin.Create(ctx, &structs.CreateAdminRequest{
		Email: "Root@Example.com", Password: "rootpass", Name: "Root", Role: structs.RoleSuperAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", admin.Email)
	assert.True(t, admin.IsActive)

	_, err = f.svc.Admin.Create(ctx, &structs.CreateAdminRequest{
		Email: "root@example.com", Password: "rootpass", Name: "Root",
	})
	requireKind(t, err, ecode.KindConflict)

	_, err = f.svc.Admin.Create(ctx, &structs.CreateAdminRequest{
		Email: "x@example.com", Password: "pass", Name: "X", Role: structs.RoleUser,
	})
	requireKind(t, err, ecode.KindValidation)

	res, err := f.svc.Admin.Login(ctx, &structs.LoginRequest{Email: "root@example.com", Password: "rootpass"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, res.Admin.ID)
	require.NotNil(t, res.Admin.LastLoginAt)

	claims, err := f.svc.Tokens.Admin.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.TypeAdmin, claims.Type)
	assert.Equal(t, string(structs.RoleSuperAdmin), claims.Role)
	assert.Equal(t, admin.ID, claims.Subject)

	_, err = f.svc.Admin.Login(ctx, &structs.LoginRequest{Email: "root@example.com", Password: "nope"})
	requireKind(t, err, ecode.KindInvalidCredentials)

	_, err = f.svc.Admin.Login(ctx, &structs.LoginRequest{Email: "ghost@example.com", Password: "rootpass"})
	requireKind(t, err, ecode.KindInvalidCredentials)
}

func TestAdminLoginInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Admin.Create(ctx, &structs.CreateAdminRequest{
		Email: "ops@example.com", Password: "opspass", Name: "Ops",
	})
	require.NoError(t, err)
	assert.Equal(t, structs.RoleAdmin, admin.Role)
	f.admins.SetActive(admin.ID, false)

	_, err = f.svc.Admin.Login(ctx, &structs.LoginRequest{Email: "ops@example.com", Password: "opspass"})
	requireKind(t, err, ecode.KindForbidden)
}

func TestAdminProfileAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Admin.Create(ctx, &structs.CreateAdminRequest{
		Email: "ops@example.com", Password: "opspass", Name: "Ops",
	})
	require.NoError(t, err)

	updated, err := f.svc.Admin.UpdateProfile(ctx, admin.ID, &structs.UpdateAdminRequest{Country: "NO"})
	require.NoError(t, err)
	assert.Equal(t, "NO", updated.Country)
	assert.Equal(t, "Ops", updated.Name)

	_, err = f.svc.Admin.Profile(ctx, "bad-id")
	requireKind(t, err, ecode.KindNotFound)

	_, err = f.svc.Admin.Find(ctx, "000000000000000000000000")
	requireKind(t, err, ecode.KindUnauthorized)

	userID := f.verified(t, "ada@example.com", "secret123")
	f.register(t, "bob@example.com", "secret123")

	user, err := f.svc.Admin.User(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = f.svc.MyList.Add(ctx, userID, &structs.AddMyListRequest{
		ProductID: "p1", ProductTitle: "Kettle", Image: "k.png", Price: 20, Brand: "Acme",
	})
	require.NoError(t, err)

	stats, err := f.svc.Admin.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &structs.DashboardStats{Users: 2, VerifiedUsers: 1, Admins: 1, MyListItems: 1}, stats)
}
