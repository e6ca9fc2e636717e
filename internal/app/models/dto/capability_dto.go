package dto

// CreateCapabilityRequest adds a capability by hand
type CreateCapabilityRequest struct {
	Name string `json:"name" binding:"required,max=80"`
	Icon string `json:"icon" binding:"omitempty,max=255"`
}

// CapabilitySyncResult reports what an icon directory sync changed
type CapabilitySyncResult struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Total     int `json:"total"`
}
