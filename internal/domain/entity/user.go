package entity

import "time"

// UserRecord пользователь, который писал боту
type UserRecord struct {
	ID          int64     `json:"id" bson:"user_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	FirstSeenAt time.Time `json:"first_seen_at" bson:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at" bson:"last_seen_at"`
}

// NewUserRecord создаёт запись при первом обращении
func NewUserRecord(id int64, displayName string, now time.Time) *UserRecord {
	return &UserRecord{
		ID:          id,
		DisplayName: displayName,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}
}

// Touch обновляет имя и время последнего обращения
func (u *UserRecord) Touch(displayName string, now time.Time) {
	u.DisplayName = displayName
	u.LastSeenAt = now
}
