// Package policy decides which caller may act on which document. Every
// document operation asks here instead of checking roles inline.
package policy

import (
	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
)

func isOwner(caller *domain.User, ownerID uuid.UUID) bool {
	return caller != nil && caller.ID == ownerID
}

// CanAccess reports whether caller may read doc.
func CanAccess(caller *domain.User, doc *domain.Document) bool {
	return doc != nil && (isOwner(caller, doc.UserID) || caller.IsAdmin())
}

// CanDelete reports whether caller may delete doc.
func CanDelete(caller *domain.User, doc *domain.Document) bool {
	return doc != nil && (isOwner(caller, doc.UserID) || caller.IsAdmin())
}

// CanReview reports whether caller may approve or reject documents.
func CanReview(caller *domain.User) bool {
	return caller.IsAdmin()
}

// CanUpload reports whether caller may upload documents on behalf of ownerID.
// Admins do not upload for other users.
func CanUpload(caller *domain.User, ownerID uuid.UUID) bool {
	return isOwner(caller, ownerID)
}

// CanListFor reports whether caller may list the documents of userID.
func CanListFor(caller *domain.User, userID uuid.UUID) bool {
	return isOwner(caller, userID) || caller.IsAdmin()
}
