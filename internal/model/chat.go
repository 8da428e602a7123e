package model

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the companion conversation, scoped to a
// workspace so professional and personal threads stay separate.
// swagger:model ChatMessage
type ChatMessage struct {
	UUIDBase
	UserID    uint      `gorm:"index:idx_chat_user_workspace;type:bigint unsigned;not null" json:"userId"`
	Workspace Workspace `gorm:"index:idx_chat_user_workspace;type:enum('professional','personal');default:'professional'" json:"workspace"`
	Role      ChatRole  `gorm:"type:enum('user','assistant');not null" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
