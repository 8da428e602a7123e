package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/util"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
)

// EnrichmentService generates the optional media layer for a loop: TTS
// narration per phase, a cover illustration, and a curated topic video.
// Every step degrades independently — a failed synthesis or upload logs and
// leaves the field empty, never failing the loop itself.
type EnrichmentService struct {
	AI          *AIService
	Storage     *StorageService
	LoopRepo    *repository.LoopRepository
	VideoRepo   *repository.TopicVideoRepository
	ProgramRepo *repository.ProgramRepository
}

func NewEnrichmentService(
	ai *AIService,
	storage *StorageService,
	loopRepo *repository.LoopRepository,
	videoRepo *repository.TopicVideoRepository,
	programRepo *repository.ProgramRepository,
) *EnrichmentService {
	return &EnrichmentService{
		AI:          ai,
		Storage:     storage,
		LoopRepo:    loopRepo,
		VideoRepo:   videoRepo,
		ProgramRepo: programRepo,
	}
}

// EnrichLoop runs the full media pass for one loop and persists whatever
// succeeded. Safe to call from a goroutine; it owns its own deadline.
func (s *EnrichmentService) EnrichLoop(loopID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	loop, err := s.LoopRepo.FindByID(loopID)
	if err != nil {
		logger.Log.Error("enrichment: loop not found", zap.String("loop", loopID), zap.Error(err))
		return
	}

	fields := map[string]interface{}{}

	totalSeconds := 0
	for _, phase := range []model.Phase{model.PhaseLearn, model.PhaseAct, model.PhaseEarn} {
		text := loop.PhaseText(phase)
		if text == "" {
			continue
		}
		url, seconds, err := s.narrate(ctx, loop.ID, phase, text)
		if err != nil {
			logger.Log.Warn("enrichment: narration failed",
				zap.String("loop", loop.ID), zap.String("phase", string(phase)), zap.Error(err))
			continue
		}
		totalSeconds += seconds
		switch phase {
		case model.PhaseLearn:
			fields["learn_audio_url"] = url
		case model.PhaseAct:
			fields["act_audio_url"] = url
		case model.PhaseEarn:
			fields["earn_audio_url"] = url
		}
	}
	if totalSeconds > 0 {
		fields["audio_seconds"] = totalSeconds
	}

	topic := s.topicFor(loop)

	if imageURL, err := s.AI.GenerateImage(
		fmt.Sprintf("Calm, minimal illustration for a growth session titled %q about %s. No text.", loop.Title, topic),
	); err != nil {
		logger.Log.Warn("enrichment: image generation failed", zap.String("loop", loop.ID), zap.Error(err))
	} else {
		fields["image_url"] = imageURL
	}

	if video, err := s.VideoRepo.FindByTopic(topic); err != nil {
		logger.Log.Debug("enrichment: no curated video for topic", zap.String("topic", topic))
	} else {
		fields["video_url"] = video.URL
	}

	if len(fields) == 0 {
		return
	}
	if err := s.LoopRepo.UpdateFields(loop.ID, fields); err != nil {
		logger.Log.Error("enrichment: failed to persist media", zap.String("loop", loop.ID), zap.Error(err))
		return
	}
	logger.Log.Info("loop enriched", zap.String("loop", loop.ID), zap.Int("audio_seconds", totalSeconds))
}

// narrate synthesizes one phase's narration, probes its duration, and moves
// it into storage. The temp file exists only long enough to be probed.
func (s *EnrichmentService) narrate(ctx context.Context, loopID string, phase model.Phase, text string) (string, int, error) {
	audio, err := s.AI.Speech(text)
	if err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp("", "narration-*.mp3")
	if err != nil {
		return "", 0, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", 0, err
	}
	tmp.Close()

	seconds := 0
	if info, err := util.GetAudioInfo(tmpPath); err != nil {
		logger.Log.Warn("enrichment: audio probe failed", zap.String("loop", loopID), zap.Error(err))
	} else {
		seconds = int(info.Duration + 0.5)
	}

	key := filepath.Join("audio", loopID, string(phase)+".mp3")
	url, err := s.Storage.UploadFile(ctx, key, tmpPath, "audio/mpeg")
	if err != nil {
		return "", 0, err
	}
	return url, seconds, nil
}

func (s *EnrichmentService) topicFor(loop *model.Loop) string {
	if loop.Program != nil && loop.Program.Topic != "" {
		return loop.Program.Topic
	}
	if program, err := s.ProgramRepo.FindByID(loop.ProgramID); err == nil && program.Topic != "" {
		return program.Topic
	}
	return loop.Title
}
