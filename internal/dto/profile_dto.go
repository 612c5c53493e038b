package dto

// ProfileUpdateRequest captures edits a user makes to their own account.
type ProfileUpdateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
}

/// ProfileResponse bundles everything the profile view renders: the user, the
// rooms they host, the rooms they liked, their messages and the topic list.
type ProfileResponse struct {
	User       UserResponse          `json:"user"`
	Rooms      []RoomSummaryResponse `json:"rooms"`
	LikedRooms []RoomSummaryResponse `json:"liked_rooms"`
	Messages   []MessageResponse     `json:"messages"`
	Topics     []TopicResponse       `json:"topics"`
}
