package service

import (
	"errors"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// inviteTTL is how long an invitation token stays valid.
const inviteTTL = 7 * 24 * time.Hour

type InvitationService struct {
	InvitationRepo *repository.InvitationRepository
	UserRepo       *repository.UserRepository
	TeamRepo       *repository.TeamRepository
}

func NewInvitationService(
	invitationRepo *repository.InvitationRepository,
	userRepo *repository.UserRepository,
	teamRepo *repository.TeamRepository,
) *InvitationService {
	return &InvitationService{
		InvitationRepo: invitationRepo,
		UserRepo:       userRepo,
		TeamRepo:       teamRepo,
	}
}

type InviteRequest struct {
	Email  string         `json:"email" binding:"required,email"`
	Role   model.UserRole `json:"role"`
	TeamID *uint          `json:"teamId,omitempty"`
}

// Invite issues a single-use token pulling an email address into the
// caller's organization. Only organization admins can invite.
func (s *InvitationService) Invite(userID uint, req InviteRequest) (*model.Invitation, error) {
	admin, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if admin.Role != model.Admin || admin.OrganizationID == nil {
		return nil, util.ErrPermissionDenied
	}
	orgID := *admin.OrganizationID

	if req.TeamID != nil {
		team, err := s.TeamRepo.FindByID(*req.TeamID)
		if err != nil || team.OrganizationID != orgID {
			return nil, util.ErrPermissionDenied
		}
	}
	if req.Role != model.Admin {
		req.Role = model.Member
	}

	invitation := &model.Invitation{
		OrganizationID: orgID,
		TeamID:         req.TeamID,
		Email:          req.Email,
		Role:           req.Role,
		Token:          model.GenerateUUID(),
		InvitedBy:      userID,
		ExpiresAt:      time.Now().Add(inviteTTL),
	}
	if err := s.InvitationRepo.Create(invitation); err != nil {
		return nil, err
	}

	logger.Log.Info("invitation issued",
		zap.Uint("org", orgID), zap.String("email", req.Email), zap.String("role", string(req.Role)))
	return invitation, nil
}

func (s *InvitationService) ListForOrganization(userID uint) ([]model.Invitation, error) {
	admin, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if admin.Role != model.Admin || admin.OrganizationID == nil {
		return nil, util.ErrPermissionDenied
	}
	return s.InvitationRepo.ListByOrganization(*admin.OrganizationID)
}

// Preview resolves an invitation token for the signup page, without
// consuming it.
func (s *InvitationService) Preview(token string) (*model.Invitation, error) {
	invitation, err := s.InvitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.AcceptedAt != nil {
		return nil, util.ErrInvitationAccepted
	}
	if time.Now().After(invitation.ExpiresAt) {
		return nil, util.ErrInvitationExpired
	}
	return invitation, nil
}

// Accept joins an existing account to the invitation's organization and
// consumes the token.
func (s *InvitationService) Accept(userID uint, token string) (*model.User, error) {
	invitation, err := s.Preview(token)
	if err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if invitation.Email != "" && invitation.Email != user.Email {
		return nil, util.ErrInvitationNotFound
	}

	user.OrganizationID = &invitation.OrganizationID
	user.TeamID = invitation.TeamID
	user.Role = invitation.Role
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	now := time.Now()
	invitation.AcceptedAt = &now
	if err := s.InvitationRepo.Update(invitation); err != nil {
		logger.Log.Error("failed to mark invitation accepted", zap.String("invitation", invitation.ID), zap.Error(err))
	}
	return user, nil
}
