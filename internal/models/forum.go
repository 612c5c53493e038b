package models

import "time"

// Topic is a shared free-text label attachable to many rooms. Topics are
// created lazily when a room references a new name and are never deleted.
type Topic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Room is a topic-tagged discussion thread with one host and many
// participants. Host and topic references survive as NULL when the
// referenced row disappears.
type Room struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	HostID       *uint     `gorm:"index" json:"host_id"`
	TopicID      *uint     `gorm:"index" json:"topic_id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Host         *User     `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"host,omitempty"`
	Topic        *Topic    `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"topic,omitempty"`
	Participants []User    `gorm:"many2many:room_participants" json:"participants,omitempty"`
}

// Message is a single post authored by a user within a room. Messages go
// away with their room or their author.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Room      *Room     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

// Like marks a one-per-user-per-room endorsement. Uniqueness is enforced by
// the service's check-then-create, not by a database constraint.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Room      *Room     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
}
