package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	UserID       uuid.UUID      `json:"user_id" db:"user_id"`
	DocumentType DocumentType   `json:"document_type" db:"document_type"`
	FileName     string         `json:"file_name" db:"file_name"`
	FileSize     int64          `json:"file_size" db:"file_size"`
	FileType     string         `json:"file_type" db:"file_type"`
	StorageKey   string         `json:"-" db:"storage_key"`
	Status       DocumentStatus `json:"status" db:"status"`
	UploadedAt   time.Time      `json:"uploaded_at" db:"uploaded_at"`
	ConfirmedAt  *time.Time     `json:"confirmed_at,omitempty" db:"confirmed_at"`
	ReviewedBy   *uuid.UUID     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	Notes        *string        `json:"notes,omitempty" db:"notes"`
}

type DocumentType string

const (
	DocPANCard         DocumentType = "PAN_CARD"
	DocAadharCard      DocumentType = "AADHAR_CARD"
	DocCancelledCheque DocumentType = "CANCELLED_CHEQUE"
	DocOfferLetter     DocumentType = "OFFER_LETTER"
)

// DocumentTypes lists every document an employee is asked for, in display order.
var DocumentTypes = []DocumentType{DocPANCard, DocAadharCard, DocCancelledCheque, DocOfferLetter}

func (t DocumentType) IsValid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the human readable name used in notifications and emails.
func (t DocumentType) Label() string {
	switch t {
	case DocPANCard:
		return "PAN Card"
	case DocAadharCard:
		return "Aadhar Card"
	case DocCancelledCheque:
		return "Cancelled Cheque"
	case DocOfferLetter:
		return "Offer Letter"
	default:
		return string(t)
	}
}

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

func (s DocumentStatus) IsValid() bool {
	return s == DocumentPending || s == DocumentApproved || s == DocumentRejected
}

// IsReviewOutcome reports whether s is a status a reviewer may set.
func (s DocumentStatus) IsReviewOutcome() bool {
	return s == DocumentApproved || s == DocumentRejected
}

type UploadInput struct {
	DocumentType DocumentType `json:"document_type"`
	FileName     string       `json:"file_name"`
	FileSize     int64        `json:"file_size"`
	FileType     string       `json:"file_type"`
}

type ReviewInput struct {
	Status DocumentStatus `json:"status"`
	Notes  *string        `json:"notes,omitempty"`
}

// TrimmedNotes returns the notes with surrounding whitespace removed, or "" when absent.
func (in ReviewInput) TrimmedNotes() string {
	if in.Notes == nil {
		return ""
	}
	return strings.TrimSpace(*in.Notes)
}

type DocumentFilter struct {
	Status       *DocumentStatus
	DocumentType *DocumentType
	UserID       *uuid.UUID
	Pagination   PaginationParams
}

type InitiateUploadResult struct {
	Document  *Document `json:"document"`
	UploadURL string    `json:"upload_url"`
	ExpiresIn int64     `json:"expires_in"`
}

type DocumentWithURL struct {
	Document
	DownloadURL string `json:"download_url"`
}

// DocumentCount is one row of a status/type group-by.
type DocumentCount struct {
	DocumentType DocumentType   `json:"document_type" db:"document_type"`
	Status       DocumentStatus `json:"status" db:"status"`
	Count        int64          `json:"count" db:"count"`
}
