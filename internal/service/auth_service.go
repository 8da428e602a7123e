package service

import (
	"errors"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo       *repository.UserRepository
	InvitationRepo *repository.InvitationRepository
	JWTConfig      config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, invitationRepo *repository.InvitationRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{UserRepo: userRepo, InvitationRepo: invitationRepo, JWTConfig: jwtConfig}
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	InviteToken string `json:"inviteToken,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates an account, optionally joining an organization via an
// invitation token. The invitation is consumed atomically with the signup.
func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:             req.Name,
		Email:            req.Email,
		Password:         string(hashed),
		Role:             model.Member,
		Level:            1,
		CurrentWorkspace: model.WorkspaceProfessional,
	}

	var invitation *model.Invitation
	if req.InviteToken != "" {
		invitation, err = s.resolveInvitation(req.InviteToken, req.Email)
		if err != nil {
			return nil, err
		}
		user.OrganizationID = &invitation.OrganizationID
		user.TeamID = invitation.TeamID
		user.Role = invitation.Role
	}

	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	if invitation != nil {
		now := time.Now()
		invitation.AcceptedAt = &now
		if err := s.InvitationRepo.Update(invitation); err != nil {
			logger.Log.Error("failed to mark invitation accepted", zap.String("invitation", invitation.ID), zap.Error(err))
		}
	}

	token, err := util.GenerateJWT(user, s.JWTConfig.Secret, s.JWTConfig.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("user", user.ID), zap.String("email", user.Email))
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) resolveInvitation(token, email string) (*model.Invitation, error) {
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
	if invitation.Email != "" && invitation.Email != email {
		return nil, util.ErrInvitationNotFound
	}
	return invitation, nil
}

// Login checks credentials and issues a token. A disabled account fails the
// same way as a bad password.
func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.Disabled {
		return nil, util.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrUserNotFound
	}

	user.LastLogin = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		logger.Log.Error("failed to record login time", zap.Uint("user", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.JWTConfig.Secret, s.JWTConfig.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}
