package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-portal/internal/domain"
)

var documentRowColumns = []string{
	"id", "user_id", "document_type", "file_name", "file_size", "file_type", "storage_key",
	"status", "uploaded_at", "confirmed_at", "reviewed_by", "reviewed_at", "notes",
}

func newMockDocumentRepo(t *testing.T) (DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDocumentRepository(sqlx.NewDb(db, "postgres")), mock
}

func newPendingDocument(userID uuid.UUID) *domain.Document {
	return &domain.Document{
		ID:           uuid.New(),
		UserID:       userID,
		DocumentType: domain.DocPANCard,
		FileName:     "pan.pdf",
		FileSize:     2048,
		FileType:     "application/pdf",
		StorageKey:   "documents/u/PAN_CARD/2-pan.pdf",
		Status:       domain.DocumentPending,
	}
}

func TestDocumentRepositoryReplaceReturnsSupersededRows(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	userID := uuid.New()
	doc := newPendingDocument(userID)
	oldID := uuid.New()
	uploadedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	notes := "blurry photo"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectQuery(`DELETE FROM documents WHERE user_id = \$1 AND document_type = \$2 RETURNING`).
		WithArgs(userID, domain.DocPANCard).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).AddRow(
			oldID.String(), userID.String(), "PAN_CARD", "old.pdf", int64(10), "application/pdf",
			"documents/u/PAN_CARD/1-old.pdf", "REJECTED", uploadedAt.Add(-time.Hour), nil, nil, nil, notes,
		))
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(doc.ID, userID, domain.DocPANCard, "pan.pdf", int64(2048), "application/pdf", doc.StorageKey, domain.DocumentPending, nil).
		WillReturnRows(sqlmock.NewRows([]string{"uploaded_at"}).AddRow(uploadedAt))
	mock.ExpectCommit()

	superseded, err := repo.Replace(context.Background(), doc)

	require.NoError(t, err)
	require.Len(t, superseded, 1)
	assert.Equal(t, oldID, superseded[0].ID)
	assert.Equal(t, "documents/u/PAN_CARD/1-old.pdf", superseded[0].StorageKey)
	assert.Equal(t, domain.DocumentRejected, superseded[0].Status)
	assert.Equal(t, uploadedAt, doc.UploadedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryReplaceUnknownOwnerRollsBack(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	doc := newPendingDocument(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM users`).
		WithArgs(doc.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	superseded, err := repo.Replace(context.Background(), doc)

	assert.Nil(t, superseded)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryReplaceInsertFailureRollsBack(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	doc := newPendingDocument(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(doc.UserID.String()))
	mock.ExpectQuery(`DELETE FROM documents`).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))
	mock.ExpectQuery(`INSERT INTO documents`).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	_, err := repo.Replace(context.Background(), doc)

	assert.ErrorContains(t, err, "insert document")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryGetByIDMissing(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM documents WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))

	doc, err := repo.GetByID(context.Background(), id)

	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryUpdateReviewOnlyTouchesPending(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	id := uuid.New()
	reviewer := uuid.New()
	at := time.Now().UTC()

	mock.ExpectQuery(`UPDATE documents\s+SET status = \$2, reviewed_by = \$3, reviewed_at = \$4, notes = \$5\s+WHERE id = \$1 AND status = 'PENDING'`).
		WithArgs(id, domain.DocumentApproved, reviewer, at, nil).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))

	doc, err := repo.UpdateReview(context.Background(), id, domain.DocumentApproved, reviewer, nil, at)

	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryListBuildsFilter(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	status := domain.DocumentPending
	docType := domain.DocOfferLetter

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE status = \$1 AND document_type = \$2`).
		WithArgs(status, docType).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`FROM documents WHERE status = \$1 AND document_type = \$2 ORDER BY uploaded_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(status, docType, 10, 10).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))

	docs, total, err := repo.List(context.Background(), domain.DocumentFilter{
		Status:       &status,
		DocumentType: &docType,
		Pagination:   domain.PaginationParams{Page: 2, PageSize: 10},
	})

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryDeleteReportsMissingRow(t *testing.T) {
	repo, mock := newMockDocumentRepo(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), id)

	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
