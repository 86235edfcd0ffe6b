package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
)

// MemoryDocumentRepository is an in-process DocumentRepository used by tests
// and local development without Postgres.
type MemoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]domain.Document
	now  func() time.Time
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{
		docs: make(map[uuid.UUID]domain.Document),
		now:  time.Now,
	}
}

func (r *MemoryDocumentRepository) Replace(ctx context.Context, doc *domain.Document) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var superseded []domain.Document
	for id, existing := range r.docs {
		if existing.UserID == doc.UserID && existing.DocumentType == doc.DocumentType {
			superseded = append(superseded, existing)
			delete(r.docs, id)
		}
	}

	doc.UploadedAt = r.now().UTC()
	r.docs[doc.ID] = *doc
	return superseded, nil
}

func (r *MemoryDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *MemoryDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Document, error) {
	return r.collect(ctx, func(d domain.Document) bool { return d.UserID == userID })
}

func (r *MemoryDocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, int64, error) {
	params := filter.Pagination
	params.Validate()

	docs, err := r.collect(ctx, func(d domain.Document) bool {
		if filter.Status != nil && d.Status != *filter.Status {
			return false
		}
		if filter.DocumentType != nil && d.DocumentType != *filter.DocumentType {
			return false
		}
		if filter.UserID != nil && d.UserID != *filter.UserID {
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(docs))
	start := min(params.Offset(), len(docs))
	end := min(start+params.PageSize, len(docs))
	return docs[start:end], total, nil
}

func (r *MemoryDocumentRepository) UpdateReview(ctx context.Context, id uuid.UUID, status domain.DocumentStatus, reviewerID uuid.UUID, notes *string, reviewedAt time.Time) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok || doc.Status != domain.DocumentPending {
		return nil, nil
	}
	doc.Status = status
	doc.ReviewedBy = &reviewerID
	doc.ReviewedAt = &reviewedAt
	doc.Notes = notes
	r.docs[id] = doc
	return &doc, nil
}

func (r *MemoryDocumentRepository) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[id]; ok {
		doc.ConfirmedAt = &at
		r.docs[id] = doc
	}
	return nil
}

func (r *MemoryDocumentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

func (r *MemoryDocumentRepository) CountByTypeAndStatus(ctx context.Context) ([]domain.DocumentCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		t domain.DocumentType
		s domain.DocumentStatus
	}
	grouped := make(map[key]int64)
	for _, d := range r.docs {
		grouped[key{d.DocumentType, d.Status}]++
	}

	counts := make([]domain.DocumentCount, 0, len(grouped))
	for k, n := range grouped {
		counts = append(counts, domain.DocumentCount{DocumentType: k.t, Status: k.s, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].DocumentType != counts[j].DocumentType {
			return counts[i].DocumentType < counts[j].DocumentType
		}
		return counts[i].Status < counts[j].Status
	})
	return counts, nil
}

func (r *MemoryDocumentRepository) collect(ctx context.Context, keep func(domain.Document) bool) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := []domain.Document{}
	for _, d := range r.docs {
		if keep(d) {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID.String() < docs[j].ID.String()
		}
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

var _ DocumentRepository = (*MemoryDocumentRepository)(nil)
