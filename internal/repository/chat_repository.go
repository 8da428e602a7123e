package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	chatCacheSize = 20
	chatCacheTTL  = 24 * time.Hour
)

// ChatRepository persists companion messages and keeps a small per-user
// recent-history cache in redis for prompt context, so every chat turn does
// not re-query the messages table.
type ChatRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{DB: db, RDB: rdb}
}

func chatCacheKey(userID uint, workspace model.Workspace) string {
	return fmt.Sprintf("chat:recent:%d:%s", userID, workspace)
}

func (r *ChatRepository) Create(msg *model.ChatMessage) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return err
	}
	r.appendToCache(msg)
	return nil
}

func (r *ChatRepository) appendToCache(msg *model.ChatMessage) {
	if r.RDB == nil {
		return
	}
	ctx := context.Background()
	key := chatCacheKey(msg.UserID, msg.Workspace)
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	pipe := r.RDB.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -chatCacheSize, -1)
	pipe.Expire(ctx, key, chatCacheTTL)
	pipe.Exec(ctx)
}

// Recent returns the newest messages for prompt context, cache first.
func (r *ChatRepository) Recent(userID uint, workspace model.Workspace, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > chatCacheSize {
		limit = chatCacheSize
	}

	if r.RDB != nil {
		ctx := context.Background()
		raw, err := r.RDB.LRange(ctx, chatCacheKey(userID, workspace), int64(-limit), -1).Result()
		if err == nil && len(raw) > 0 {
			msgs := make([]model.ChatMessage, 0, len(raw))
			for _, item := range raw {
				var m model.ChatMessage
				if json.Unmarshal([]byte(item), &m) == nil {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) > 0 {
				return msgs, nil
			}
		}
	}

	var msgs []model.ChatMessage
	err := r.DB.Where("user_id = ? AND workspace = ?", userID, workspace).
		Order("created_at DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// DB query is newest-first; chronological order for the prompt.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *ChatRepository) History(userID uint, workspace model.Workspace, page, pageSize int) ([]model.ChatMessage, int64, error) {
	var msgs []model.ChatMessage
	var total int64

	query := r.DB.Model(&model.ChatMessage{}).
		Where("user_id = ? AND workspace = ?", userID, workspace)
	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&msgs).Error
	return msgs, total, err
}

func (r *ChatRepository) ClearHistory(userID uint, workspace model.Workspace) error {
	if r.RDB != nil {
		r.RDB.Del(context.Background(), chatCacheKey(userID, workspace))
	}
	return r.DB.Where("user_id = ? AND workspace = ?", userID, workspace).
		Delete(&model.ChatMessage{}).Error
}
