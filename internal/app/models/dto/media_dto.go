package dto

import "github.com/yigit/bandhub/internal/app/models"

// SignUploadRequest asks for a direct-to-storage upload URL
type SignUploadRequest struct {
	Kind        models.MediaKind `json:"kind" binding:"required" enums:"photo,recording"`
	FileName    string           `json:"fileName" binding:"required,max=200"`
	ContentType string           `json:"contentType" binding:"required,max=100"`
}

// SignUploadResponse carries the signed URL and the path to register afterwards
type SignUploadResponse struct {
	UploadURL   string `json:"uploadUrl"`
	StoragePath string `json:"storagePath"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterMediaRequest records an object uploaded through a signed URL
type RegisterMediaRequest struct {
	Kind        models.MediaKind `json:"kind" binding:"required"`
	StoragePath string           `json:"storagePath" binding:"required,max=500"`
	ContentType string           `json:"contentType" binding:"omitempty,max=100"`
	Caption     string           `json:"caption" binding:"omitempty,max=500"`
}
