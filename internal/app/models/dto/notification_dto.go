package dto

// InviteCandidate is a caller-side view of a recipient. Only Name is used;
// contact details are always taken from the user directory.
type InviteCandidate struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SendInvitesRequest emails a session invite to users
type SendInvitesRequest struct {
	UserIDs    []string          `json:"userIds"`
	Candidates []InviteCandidate `json:"candidates"`
	Message    string            `json:"message" binding:"omitempty,max=2000"`
}

// InviteResult is the outcome for one invite recipient
type InviteResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status" enums:"sent,skipped,failed"`
	Error  string `json:"error,omitempty"`
}

// SendSMSRequest overrides the default reminder text
type SendSMSRequest struct {
	Message string `json:"message" binding:"omitempty,max=1000"`
}

// SMSReport tallies a reminder batch
type SMSReport struct {
	Recipients int   `json:"recipients"`
	Skipped    int   `json:"skipped"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
}
