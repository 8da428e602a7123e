package service

import (
	"errors"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"gorm.io/gorm"
)

// OrganizationService covers the multi-tenant admin surface: organizations,
// their teams, membership management, and the engagement rollup admins see.
type OrganizationService struct {
	OrgRepo      *repository.OrganizationRepository
	TeamRepo     *repository.TeamRepository
	UserRepo     *repository.UserRepository
	SessionRepo  *repository.SessionRepository
	PointLogRepo *repository.PointLogRepository
}

func NewOrganizationService(
	orgRepo *repository.OrganizationRepository,
	teamRepo *repository.TeamRepository,
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	pointLogRepo *repository.PointLogRepository,
) *OrganizationService {
	return &OrganizationService{
		OrgRepo:      orgRepo,
		TeamRepo:     teamRepo,
		UserRepo:     userRepo,
		SessionRepo:  sessionRepo,
		PointLogRepo: pointLogRepo,
	}
}

// requireAdmin checks that the caller administers the given organization.
func (s *OrganizationService) requireAdmin(userID, orgID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	if user.Role != model.Admin || user.OrganizationID == nil || *user.OrganizationID != orgID {
		return util.ErrPermissionDenied
	}
	return nil
}

type CreateOrganizationRequest struct {
	Name   string `json:"name" binding:"required"`
	Domain string `json:"domain"`
	Logo   string `json:"logo"`
}

// Create makes a new organization and promotes the creator to its admin.
func (s *OrganizationService) Create(userID uint, req CreateOrganizationRequest) (*model.Organization, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.OrganizationID != nil {
		return nil, util.ErrPermissionDenied
	}

	org := &model.Organization{Name: req.Name, Domain: req.Domain, Logo: req.Logo}
	if err := s.OrgRepo.Create(org); err != nil {
		return nil, err
	}

	user.OrganizationID = &org.ID
	user.Role = model.Admin
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Get(userID, orgID uint) (*model.Organization, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.OrganizationID == nil || *user.OrganizationID != orgID {
		return nil, util.ErrPermissionDenied
	}

	org, err := s.OrgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Members(userID, orgID uint, page, pageSize int) ([]model.User, int64, error) {
	if err := s.requireAdmin(userID, orgID); err != nil {
		return nil, 0, err
	}
	return s.UserRepo.ListByOrganization(orgID, page, pageSize)
}

// SetMemberRole promotes or demotes a member of the caller's organization.
func (s *OrganizationService) SetMemberRole(userID, orgID, memberID uint, role model.UserRole) (*model.User, error) {
	if err := s.requireAdmin(userID, orgID); err != nil {
		return nil, err
	}
	if role != model.Member && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	member, err := s.UserRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if member.OrganizationID == nil || *member.OrganizationID != orgID {
		return nil, util.ErrUserNotFound
	}

	member.Role = role
	if err := s.UserRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// SetMemberDisabled blocks or unblocks a member's access. Admins cannot
// disable themselves.
func (s *OrganizationService) SetMemberDisabled(userID, orgID, memberID uint, disabled bool) (*model.User, error) {
	if err := s.requireAdmin(userID, orgID); err != nil {
		return nil, err
	}
	if userID == memberID {
		return nil, util.ErrPermissionDenied
	}

	member, err := s.UserRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if member.OrganizationID == nil || *member.OrganizationID != orgID {
		return nil, util.ErrUserNotFound
	}

	member.Disabled = disabled
	if err := s.UserRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *OrganizationService) CreateTeam(userID, orgID uint, req CreateTeamRequest) (*model.Team, error) {
	if err := s.requireAdmin(userID, orgID); err != nil {
		return nil, err
	}
	team := &model.Team{OrganizationID: orgID, Name: req.Name}
	return team, s.TeamRepo.Create(team)
}

func (s *OrganizationService) Teams(userID, orgID uint) ([]model.Team, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.OrganizationID == nil || *user.OrganizationID != orgID {
		return nil, util.ErrPermissionDenied
	}
	return s.TeamRepo.ListByOrganization(orgID)
}

// AssignTeam moves a member into a team of the same organization, or out of
// any team when teamID is nil.
func (s *OrganizationService) AssignTeam(userID, orgID, memberID uint, teamID *uint) (*model.User, error) {
	if err := s.requireAdmin(userID, orgID); err != nil {
		return nil, err
	}

	member, err := s.UserRepo.FindByID(memberID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if member.OrganizationID == nil || *member.OrganizationID != orgID {
		return nil, util.ErrUserNotFound
	}

	if teamID != nil {
		team, err := s.TeamRepo.FindByID(*teamID)
		if err != nil || team.OrganizationID != orgID {
			return nil, util.ErrPermissionDenied
		}
	}

	member.TeamID = teamID
	if err := s.UserRepo.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// EngagementReport is the admin dashboard rollup for one organization.
type EngagementReport struct {
	Members           int64 `json:"members"`
	SessionsLast30d   int64 `json:"sessionsLast30d"`
	TotalPointsEarned int64 `json:"totalPointsEarned"`
	ActiveStreaks     int64 `json:"activeStreaks"`
}

func (s *OrganizationService) Engagement(userID, orgID uint) (*EngagementReport, error) {
	if err := s.requireAdmin(userID, orgID); err != nil {
		return nil, err
	}

	members, total, err := s.UserRepo.ListByOrganization(orgID, 1, 1000)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]uint, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	report := &EngagementReport{Members: total}
	if len(memberIDs) > 0 {
		since := time.Now().AddDate(0, 0, -30)
		if report.SessionsLast30d, err = s.SessionRepo.CountCompletedSince(memberIDs, since); err != nil {
			return nil, err
		}
		if report.TotalPointsEarned, err = s.PointLogRepo.SumByUsers(memberIDs); err != nil {
			return nil, err
		}
		// A streak survives until the end of the day after the last
		// completion, so anyone who completed yesterday or later counts.
		yesterday := time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
		if report.ActiveStreaks, err = s.SessionRepo.CountUsersCompletedSince(memberIDs, yesterday); err != nil {
			return nil, err
		}
	}
	return report, nil
}
