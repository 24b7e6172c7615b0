package models

import (
	"encoding/base64"
	"time"
)

// User is a tracked attendee identified by the opaque id assigned by the
// chat platform. Rows are created lazily on the first attendance operation
// and removed by the retention sweeper once they hold no records.
type User struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	GroupID    *string   `gorm:"index;size:64" json:"group_id,omitempty"`
	Nickname   string    `gorm:"size:64" json:"nickname"`
	AvatarData string    `gorm:"type:text" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Avatar decodes the cached avatar blob, or returns nil when absent.
func (u *User) Avatar() []byte {
	if u.AvatarData == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(u.AvatarData)
	if err != nil {
		return nil
	}
	return raw
}

// SetAvatar stores the avatar bytes base64-encoded; nil clears it.
func (u *User) SetAvatar(raw []byte) {
	if len(raw) == 0 {
		u.AvatarData = ""
		return
	}
	u.AvatarData = base64.StdEncoding.EncodeToString(raw)
}
