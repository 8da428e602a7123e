package service

import (
	"testing"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrgFixture(t *testing.T) (*testEnv, *OrganizationService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewOrganizationService(
		repository.NewOrganizationRepository(env.db),
		repository.NewTeamRepository(env.db),
		env.users, env.sessions, env.pointLogs,
	)
	return env, svc
}

// createOrg makes an organization through the service so the creator ends up
// as its admin, mirroring the signup-then-create flow.
func createOrg(t *testing.T, env *testEnv, svc *OrganizationService) (*model.User, *model.Organization) {
	t.Helper()
	admin := env.createUser(t)
	org, err := svc.Create(admin.ID, CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	admin, err = env.users.FindByID(admin.ID)
	require.NoError(t, err)
	return admin, org
}

func (e *testEnv) addMember(t *testing.T, orgID uint) *model.User {
	t.Helper()
	member := e.createUser(t)
	member.OrganizationID = &orgID
	require.NoError(t, e.users.Update(member))
	return member
}

func TestCreateOrganizationPromotesCreator(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)

	assert.Equal(t, model.Admin, admin.Role)
	require.NotNil(t, admin.OrganizationID)
	assert.Equal(t, org.ID, *admin.OrganizationID)
}

func TestCreateOrganizationRejectsExistingMember(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, _ := createOrg(t, env, svc)

	_, err := svc.Create(admin.ID, CreateOrganizationRequest{Name: "Second"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestMembersRequiresAdmin(t *testing.T) {
	env, svc := newOrgFixture(t)
	_, org := createOrg(t, env, svc)
	member := env.addMember(t, org.ID)

	_, _, err := svc.Members(member.ID, org.ID, 1, 20)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSetMemberRolePromotes(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)
	member := env.addMember(t, org.ID)

	updated, err := svc.SetMemberRole(admin.ID, org.ID, member.ID, model.Admin)
	require.NoError(t, err)
	assert.Equal(t, model.Admin, updated.Role)
}

func TestSetMemberRoleRejectsOutsider(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)
	outsider := env.createUser(t)

	_, err := svc.SetMemberRole(admin.ID, org.ID, outsider.ID, model.Admin)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestAdminCannotDisableSelf(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)

	_, err := svc.SetMemberDisabled(admin.ID, org.ID, admin.ID, true)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAssignTeamWithinOrganization(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)
	member := env.addMember(t, org.ID)

	team, err := svc.CreateTeam(admin.ID, org.ID, CreateTeamRequest{Name: "Growth"})
	require.NoError(t, err)

	updated, err := svc.AssignTeam(admin.ID, org.ID, member.ID, &team.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TeamID)
	assert.Equal(t, team.ID, *updated.TeamID)

	updated, err = svc.AssignTeam(admin.ID, org.ID, member.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.TeamID)
}

func TestAssignTeamRejectsForeignTeam(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)
	member := env.addMember(t, org.ID)

	other := &model.Team{OrganizationID: org.ID + 100, Name: "Elsewhere"}
	require.NoError(t, repository.NewTeamRepository(env.db).Create(other))

	_, err := svc.AssignTeam(admin.ID, org.ID, member.ID, &other.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestEngagementRollsUpMemberActivity(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)
	active := env.addMember(t, org.ID)
	lapsed := env.addMember(t, org.ID)

	loop := env.createLoop(t, 10, 10, 5)
	env.seedCompletedSession(t, active.ID, loop, 0)
	env.seedCompletedSession(t, lapsed.ID, loop, 5)
	require.NoError(t, env.pointLogs.Create(&model.PointLog{
		UserID: active.ID, Source: model.PointSourceSession, Points: 50,
	}))
	require.NoError(t, env.pointLogs.Create(&model.PointLog{
		UserID: lapsed.ID, Source: model.PointSourceSession, Points: 80,
	}))

	report, err := svc.Engagement(admin.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Members)
	assert.Equal(t, int64(2), report.SessionsLast30d)
	assert.Equal(t, int64(130), report.TotalPointsEarned)
	// Only the member who completed within the last day still holds a streak.
	assert.Equal(t, int64(1), report.ActiveStreaks)
}

func TestEngagementRequiresAdmin(t *testing.T) {
	env, svc := newOrgFixture(t)
	_, org := createOrg(t, env, svc)
	member := env.addMember(t, org.ID)

	_, err := svc.Engagement(member.ID, org.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

// Completing a session just before yesterday's midnight cutoff should not
// count as an active streak.
func TestActiveStreakCutoff(t *testing.T) {
	env, svc := newOrgFixture(t)
	admin, org := createOrg(t, env, svc)
	member := env.addMember(t, org.ID)

	loop := env.createLoop(t, 10, 10, 5)
	env.seedCompletedSession(t, member.ID, loop, 2)

	report, err := svc.Engagement(admin.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.ActiveStreaks)
}
