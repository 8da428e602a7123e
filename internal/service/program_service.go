package service

import (
	"errors"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"

	"gorm.io/gorm"
)

// ProgramService is the catalog read side plus manual program authoring.
// AI-generated programs come in through WorkflowService; this covers
// browsing and hand-curated content.
type ProgramService struct {
	ProgramRepo  *repository.ProgramRepository
	LoopRepo     *repository.LoopRepository
	ProgressRepo *repository.ProgressRepository
	VideoRepo    *repository.TopicVideoRepository
}

func NewProgramService(
	programRepo *repository.ProgramRepository,
	loopRepo *repository.LoopRepository,
	progressRepo *repository.ProgressRepository,
	videoRepo *repository.TopicVideoRepository,
) *ProgramService {
	return &ProgramService{
		ProgramRepo:  programRepo,
		LoopRepo:     loopRepo,
		ProgressRepo: progressRepo,
		VideoRepo:    videoRepo,
	}
}

func (s *ProgramService) List(workspace model.Workspace, page, pageSize int) ([]model.Program, int64, error) {
	if !workspace.Valid() {
		return nil, 0, util.ErrInvalidWorkspace
	}
	return s.ProgramRepo.ListByWorkspace(workspace, page, pageSize)
}

// ProgramDetail is a program with its loops attached.
type ProgramDetail struct {
	*model.Program
	Loops []model.Loop `json:"loops"`
}

func (s *ProgramService) Get(id uint) (*ProgramDetail, error) {
	program, err := s.ProgramRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}
	loops, err := s.LoopRepo.ListByProgram(id)
	if err != nil {
		return nil, err
	}
	return &ProgramDetail{Program: program, Loops: loops}, nil
}

func (s *ProgramService) GetLoop(id string) (*model.Loop, error) {
	loop, err := s.LoopRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLoopNotFound
		}
		return nil, err
	}
	return loop, nil
}

type CreateProgramRequest struct {
	Title        string           `json:"title" binding:"required"`
	Topic        string           `json:"topic"`
	Category     string           `json:"category"`
	Workspace    model.Workspace  `json:"workspace" binding:"required"`
	SeriesType   model.SeriesType `json:"seriesType"`
	Tone         string           `json:"tone"`
	LearnMinutes int              `json:"learnMinutes"`
	ActMinutes   int              `json:"actMinutes"`
	EarnMinutes  int              `json:"earnMinutes"`
}

// Create makes a hand-authored program. The phase allocation must fill the
// canonical session length exactly.
func (s *ProgramService) Create(userID uint, req CreateProgramRequest) (*model.Program, error) {
	if !req.Workspace.Valid() {
		return nil, util.ErrInvalidWorkspace
	}
	if !req.SeriesType.Valid() {
		req.SeriesType = model.SeriesOneOff
	}
	if req.LearnMinutes == 0 && req.ActMinutes == 0 && req.EarnMinutes == 0 {
		req.LearnMinutes, req.ActMinutes, req.EarnMinutes = 15, 7, 3
	}

	program := &model.Program{
		Title:        req.Title,
		Topic:        req.Topic,
		Category:     req.Category,
		Workspace:    req.Workspace,
		SeriesType:   req.SeriesType,
		Tone:         req.Tone,
		LearnMinutes: req.LearnMinutes,
		ActMinutes:   req.ActMinutes,
		EarnMinutes:  req.EarnMinutes,
		TotalMinutes: model.DefaultTotalMinutes,
		CreatedBy:    userID,
	}
	if !program.DurationsValid() {
		return nil, util.ErrInvalidDurations
	}
	return program, s.ProgramRepo.Create(program)
}

type CreateLoopRequest struct {
	Title        string `json:"title" binding:"required"`
	LearnText    string `json:"learnText"`
	ActText      string `json:"actText"`
	EarnText     string `json:"earnText"`
	LearnMinutes int    `json:"learnMinutes"`
	ActMinutes   int    `json:"actMinutes"`
	EarnMinutes  int    `json:"earnMinutes"`
}

// AddLoop appends a loop to a program, inheriting the program's phase
// allocation when the request leaves it zero.
func (s *ProgramService) AddLoop(programID uint, req CreateLoopRequest) (*model.Loop, error) {
	program, err := s.ProgramRepo.FindByID(programID)
	if err != nil {
		return nil, util.ErrProgramNotFound
	}

	existing, err := s.LoopRepo.ListByProgram(programID)
	if err != nil {
		return nil, err
	}

	if req.LearnMinutes == 0 && req.ActMinutes == 0 && req.EarnMinutes == 0 {
		req.LearnMinutes = program.LearnMinutes
		req.ActMinutes = program.ActMinutes
		req.EarnMinutes = program.EarnMinutes
	}

	loop := &model.Loop{
		ProgramID:    programID,
		Index:        len(existing) + 1,
		Title:        req.Title,
		LearnText:    req.LearnText,
		ActText:      req.ActText,
		EarnText:     req.EarnText,
		LearnMinutes: req.LearnMinutes,
		ActMinutes:   req.ActMinutes,
		EarnMinutes:  req.EarnMinutes,
	}
	return loop, s.LoopRepo.Create(loop)
}

// Progress returns the user's per-program completion markers.
func (s *ProgramService) Progress(userID uint) ([]model.Progress, error) {
	return s.ProgressRepo.ListByUser(userID)
}

func (s *ProgramService) TopicVideos() ([]model.TopicVideo, error) {
	return s.VideoRepo.List()
}
