package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"onboarding-portal/internal/domain"
)

// DocumentRepository persists document rows. Implementations guarantee at
// most one row per (user, document type) at every observable instant.
type DocumentRepository interface {
	// Replace removes every row for (doc.UserID, doc.DocumentType) and inserts
	// doc as the only one, atomically. It returns the rows it removed.
	Replace(ctx context.Context, doc *domain.Document) ([]domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Document, error)
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, int64, error)
	// UpdateReview records a review outcome on a PENDING document. It returns
	// nil when no pending row with that id exists.
	UpdateReview(ctx context.Context, id uuid.UUID, status domain.DocumentStatus, reviewerID uuid.UUID, notes *string, reviewedAt time.Time) (*domain.Document, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountByTypeAndStatus(ctx context.Context) ([]domain.DocumentCount, error)
}

const documentColumns = `id, user_id, document_type, file_name, file_size, file_type, storage_key,
	status, uploaded_at, confirmed_at, reviewed_by, reviewed_at, notes`

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Replace(ctx context.Context, doc *domain.Document) ([]domain.Document, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	// Serializes concurrent uploads for the same owner.
	var ownerID uuid.UUID
	err = tx.GetContext(ctx, &ownerID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, doc.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("lock owner: %w", err)
	}

	var superseded []domain.Document
	query := `DELETE FROM documents WHERE user_id = $1 AND document_type = $2 RETURNING ` + documentColumns
	if err := tx.SelectContext(ctx, &superseded, query, doc.UserID, doc.DocumentType); err != nil {
		return nil, fmt.Errorf("remove superseded: %w", err)
	}

	insert := `
		INSERT INTO documents (id, user_id, document_type, file_name, file_size, file_type, storage_key, status, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING uploaded_at`
	err = tx.QueryRowxContext(ctx, insert,
		doc.ID, doc.UserID, doc.DocumentType, doc.FileName,
		doc.FileSize, doc.FileType, doc.StorageKey, doc.Status, doc.ConfirmedAt,
	).Scan(&doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}
	return superseded, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	err := r.db.GetContext(ctx, &doc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Document, error) {
	docs := []domain.Document{}
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`

	err := r.db.SelectContext(ctx, &docs, query, userID)
	return docs, err
}

func (r *documentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, int64, error) {
	params := filter.Pagination
	params.Validate()

	var conditions []string
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DocumentType != nil {
		args = append(args, *filter.DocumentType)
		conditions = append(conditions, fmt.Sprintf("document_type = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM documents%s ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, len(args)+1, len(args)+2)
	docs := []domain.Document{}
	err := r.db.SelectContext(ctx, &docs, query, append(args, params.PageSize, params.Offset())...)
	return docs, total, err
}

func (r *documentRepository) UpdateReview(ctx context.Context, id uuid.UUID, status domain.DocumentStatus, reviewerID uuid.UUID, notes *string, reviewedAt time.Time) (*domain.Document, error) {
	query := `
		UPDATE documents
		SET status = $2, reviewed_by = $3, reviewed_at = $4, notes = $5
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + documentColumns

	var doc domain.Document
	err := r.db.QueryRowxContext(ctx, query, id, status, reviewerID, reviewedAt, notes).StructScan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE documents SET confirmed_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *documentRepository) CountByTypeAndStatus(ctx context.Context) ([]domain.DocumentCount, error) {
	counts := []domain.DocumentCount{}
	query := `
		SELECT document_type, status, COUNT(*) AS count
		FROM documents
		GROUP BY document_type, status
		ORDER BY document_type, status`
	err := r.db.SelectContext(ctx, &counts, query)
	return counts, err
}
