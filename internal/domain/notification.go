package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"user_id" db:"user_id"`
	Type         NotificationType `json:"type" db:"type"`
	Title        string           `json:"title" db:"title"`
	Message      string           `json:"message" db:"message"`
	DocumentID   *uuid.UUID       `json:"document_id,omitempty" db:"document_id"`
	DocumentType *DocumentType    `json:"document_type,omitempty" db:"document_type"`
	Link         *string          `json:"link,omitempty" db:"link"`
	IsRead       bool             `json:"is_read" db:"is_read"`
	ReadAt       *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

type NotificationType string

const (
	NotifDocumentUploaded NotificationType = "document_uploaded"
	NotifDocumentApproved NotificationType = "document_approved"
	NotifDocumentRejected NotificationType = "document_rejected"
)
