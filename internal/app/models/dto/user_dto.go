package dto

// SetUserStatusRequest approves or rejects a batch of users
type SetUserStatusRequest struct {
	UserIDs      []string `json:"userIds"`
	Action       string   `json:"action" example:"approve" enums:"approve,reject"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// SetUserStatusResponse lists the users whose status changed
type SetUserStatusResponse struct {
	Updated []string `json:"updated"`
	Status  string   `json:"status"`
}

// UpdateProfileRequest edits the caller's own profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=120"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

// DashboardStats is the admin overview
type DashboardStats struct {
	PendingUsers     int64 `json:"pendingUsers"`
	UpcomingSessions int64 `json:"upcomingSessions"`
	ActiveSongs      int64 `json:"activeSongs"`
	OpenFeedback     int64 `json:"openFeedback"`
}
