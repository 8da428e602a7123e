package service

import (
	"errors"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Rule     *PointsRule
}

func NewUserService(userRepo *repository.UserRepository, rule *PointsRule) *UserService {
	return &UserService{UserRepo: userRepo, Rule: rule}
}

// Profile is the user plus the derived progression fields clients render on
// the profile card.
type Profile struct {
	*model.User
	NextLevelAt int `json:"nextLevelAt"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &Profile{User: user, NextLevelAt: s.Rule.NextLevelAt(user.Points)}, nil
}

type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SwitchWorkspace flips the active workspace. Programs, sessions and chat
// are all scoped by it.
func (s *UserService) SwitchWorkspace(userID uint, workspace model.Workspace) (*model.User, error) {
	if !workspace.Valid() {
		return nil, util.ErrInvalidWorkspace
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	user.CurrentWorkspace = workspace
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (s *UserService) ChangePassword(userID uint, req ChangePasswordRequest) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return util.ErrPermissionDenied
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}
