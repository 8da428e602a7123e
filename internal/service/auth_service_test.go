package service

import (
	"testing"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewAuthService(env.users, repository.NewInvitationRepository(env.db), config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
	})
	return svc, env
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	registered, err := svc.Register(RegisterRequest{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "strong-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, model.Member, registered.User.Role)
	assert.Equal(t, 1, registered.User.Level)
	assert.NotEqual(t, "strong-password", registered.User.Password)

	claims, err := util.ParseJWT(registered.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(LoginRequest{Email: "sam@example.com", Password: "strong-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "strong-password"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterRequest{Name: "Other", Email: "sam@example.com", Password: "another-password"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "strong-password"})
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{Email: "sam@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, env := newAuthService(t)

	registered, err := svc.Register(RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "strong-password"})
	require.NoError(t, err)

	registered.User.Disabled = true
	require.NoError(t, env.users.Update(registered.User))

	// Reveals nothing about the account state.
	_, err = svc.Login(LoginRequest{Email: "sam@example.com", Password: "strong-password"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestRegisterWithInvitation(t *testing.T) {
	svc, env := newAuthService(t)

	org := model.Organization{Name: "Acme"}
	require.NoError(t, env.db.Create(&org).Error)

	invitations := repository.NewInvitationRepository(env.db)
	inv := &model.Invitation{
		OrganizationID: org.ID,
		Email:          "sam@example.com",
		Role:           model.Admin,
		Token:          model.GenerateUUID(),
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	require.NoError(t, invitations.Create(inv))

	registered, err := svc.Register(RegisterRequest{
		Name:        "Sam",
		Email:       "sam@example.com",
		Password:    "strong-password",
		InviteToken: inv.Token,
	})
	require.NoError(t, err)
	require.NotNil(t, registered.User.OrganizationID)
	assert.Equal(t, org.ID, *registered.User.OrganizationID)
	assert.Equal(t, model.Admin, registered.User.Role)

	stored, err := invitations.FindByToken(inv.Token)
	require.NoError(t, err)
	assert.NotNil(t, stored.AcceptedAt)

	// The consumed token cannot be reused.
	_, err = svc.Register(RegisterRequest{
		Name:        "Another",
		Email:       "sam@example.com",
		Password:    "strong-password",
		InviteToken: inv.Token,
	})
	assert.Error(t, err)
}

func TestRegisterWithExpiredInvitation(t *testing.T) {
	svc, env := newAuthService(t)

	org := model.Organization{Name: "Acme"}
	require.NoError(t, env.db.Create(&org).Error)

	invitations := repository.NewInvitationRepository(env.db)
	inv := &model.Invitation{
		OrganizationID: org.ID,
		Email:          "sam@example.com",
		Token:          model.GenerateUUID(),
		ExpiresAt:      time.Now().Add(-time.Hour),
	}
	require.NoError(t, invitations.Create(inv))

	_, err := svc.Register(RegisterRequest{
		Name:        "Sam",
		Email:       "sam@example.com",
		Password:    "strong-password",
		InviteToken: inv.Token,
	})
	assert.ErrorIs(t, err, util.ErrInvitationExpired)
}

func TestRegisterInvitationEmailMismatch(t *testing.T) {
	svc, env := newAuthService(t)

	org := model.Organization{Name: "Acme"}
	require.NoError(t, env.db.Create(&org).Error)

	invitations := repository.NewInvitationRepository(env.db)
	inv := &model.Invitation{
		OrganizationID: org.ID,
		Email:          "someone-else@example.com",
		Token:          model.GenerateUUID(),
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	require.NoError(t, invitations.Create(inv))

	_, err := svc.Register(RegisterRequest{
		Name:        "Sam",
		Email:       "sam@example.com",
		Password:    "strong-password",
		InviteToken: inv.Token,
	})
	assert.ErrorIs(t, err, util.ErrInvitationNotFound)
}
