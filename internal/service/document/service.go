// Package document implements the onboarding document lifecycle: upload,
// supersession, review and deletion.
package document

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/repository"
	"onboarding-portal/internal/service/audit"
	"onboarding-portal/internal/service/dispatch"
	"onboarding-portal/internal/service/notification"
	"onboarding-portal/internal/service/policy"
	"onboarding-portal/internal/storage"
)

const entityDocument = "DOCUMENT"

type Service interface {
	InitiateUpload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput) (*domain.InitiateUploadResult, error)
	// Upload stores the bytes server-side instead of handing out a presigned URL.
	Upload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput, body io.Reader) (*domain.Document, error)
	ConfirmUpload(ctx context.Context, id, callerID uuid.UUID) (*domain.Document, error)
	Review(ctx context.Context, id, callerID uuid.UUID, input domain.ReviewInput, meta *domain.RequestMeta) (*domain.Document, error)
	Get(ctx context.Context, id, callerID uuid.UUID) (*domain.DocumentWithURL, error)
	Delete(ctx context.Context, id, callerID uuid.UUID, meta *domain.RequestMeta) error
	ListForUser(ctx context.Context, userID, callerID uuid.UUID) ([]domain.Document, error)
	ListAll(ctx context.Context, callerID uuid.UUID, filter domain.DocumentFilter) (domain.PaginatedResponse[domain.Document], error)
	SetStatsInvalidator(inv StatsInvalidator)
}

// StatsInvalidator drops cached aggregates after a document changes.
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Options struct {
	UploadURLTTL   time.Duration
	DownloadURLTTL time.Duration
	MaxUploadSize  int64
	AllowedTypes   []string
}

type service struct {
	docRepo    repository.DocumentRepository
	userRepo   repository.UserRepository
	store      storage.ObjectStore
	notifSvc   notification.Service
	auditSvc   audit.Service
	dispatcher dispatch.Dispatcher
	stats      StatsInvalidator
	logger     *slog.Logger
	opts       Options
	now        func() time.Time
}

func NewService(
	docRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
	store storage.ObjectStore,
	notifSvc notification.Service,
	auditSvc audit.Service,
	dispatcher dispatch.Dispatcher,
	logger *slog.Logger,
	opts Options,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		docRepo:    docRepo,
		userRepo:   userRepo,
		store:      store,
		notifSvc:   notifSvc,
		auditSvc:   auditSvc,
		dispatcher: dispatcher,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

func (s *service) SetStatsInvalidator(inv StatsInvalidator) {
	s.stats = inv
}

func (s *service) InitiateUpload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput) (*domain.InitiateUploadResult, error) {
	caller, doc, err := s.prepareUpload(ctx, callerID, input)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.store.PresignPut(ctx, doc.StorageKey, doc.FileType, s.opts.UploadURLTTL)
	if err != nil {
		return nil, domain.DependencyFailure("presign upload", err)
	}

	if err := s.commitUpload(ctx, caller, doc); err != nil {
		return nil, err
	}

	return &domain.InitiateUploadResult{
		Document:  doc,
		UploadURL: uploadURL,
		ExpiresIn: int64(s.opts.UploadURLTTL.Seconds()),
	}, nil
}

func (s *service) Upload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput, body io.Reader) (*domain.Document, error) {
	caller, doc, err := s.prepareUpload(ctx, callerID, input)
	if err != nil {
		return nil, err
	}

	// Bytes first: a failed commit leaves an orphaned object, never a row
	// pointing at a missing key.
	if err := s.store.Put(ctx, doc.StorageKey, io.LimitReader(body, doc.FileSize), doc.FileSize, doc.FileType); err != nil {
		return nil, domain.DependencyFailure("store document", err)
	}
	confirmedAt := s.now().UTC()
	doc.ConfirmedAt = &confirmedAt

	if err := s.commitUpload(ctx, caller, doc); err != nil {
		s.deleteObject(doc.StorageKey, doc.ID)
		return nil, err
	}
	return doc, nil
}

// prepareUpload resolves the caller and validates input into a new PENDING
// document that has not been persisted yet.
func (s *service) prepareUpload(ctx context.Context, callerID uuid.UUID, input domain.UploadInput) (*domain.User, *domain.Document, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanUpload(caller, callerID) {
		return nil, nil, domain.Forbidden("cannot upload documents for another user")
	}
	if err := s.validateUpload(&input); err != nil {
		return nil, nil, err
	}

	key, err := storage.DocumentKey(caller.ID, string(input.DocumentType), s.now(), input.FileName)
	if err != nil {
		return nil, nil, domain.ValidationError("invalid file name")
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		UserID:       caller.ID,
		DocumentType: input.DocumentType,
		FileName:     input.FileName,
		FileSize:     input.FileSize,
		FileType:     input.FileType,
		StorageKey:   key,
		Status:       domain.DocumentPending,
	}
	return caller, doc, nil
}

func (s *service) validateUpload(input *domain.UploadInput) error {
	input.FileName = strings.TrimSpace(input.FileName)
	input.FileType = strings.ToLower(strings.TrimSpace(input.FileType))

	if !input.DocumentType.IsValid() {
		return domain.ValidationError("unknown document type %q", input.DocumentType)
	}
	if input.FileName == "" {
		return domain.ValidationError("file name is required")
	}
	if input.FileSize <= 0 {
		return domain.ValidationError("file size must be positive")
	}
	if s.opts.MaxUploadSize > 0 && input.FileSize > s.opts.MaxUploadSize {
		return domain.ValidationError("file exceeds the %d byte limit", s.opts.MaxUploadSize)
	}
	if len(s.opts.AllowedTypes) > 0 && !slices.Contains(s.opts.AllowedTypes, input.FileType) {
		return domain.ValidationError("file type %q is not allowed", input.FileType)
	}
	return nil
}

// commitUpload replaces any earlier document of the same type, then cleans up
// the superseded bytes and tells the admins.
func (s *service) commitUpload(ctx context.Context, caller *domain.User, doc *domain.Document) error {
	superseded, err := s.docRepo.Replace(ctx, doc)
	if err != nil {
		return domain.DependencyFailure("replace document", err)
	}

	for _, old := range superseded {
		if old.StorageKey != doc.StorageKey {
			s.deleteObject(old.StorageKey, old.ID)
		}
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID, "user_id", doc.UserID,
		"document_type", doc.DocumentType, "superseded", len(superseded))

	uploaded := *doc
	s.dispatch("notify_document_uploaded", doc.ID, func(ctx context.Context) error {
		return s.notifSvc.NotifyDocumentUploaded(ctx, &uploaded, caller)
	})
	s.invalidateStats(doc.ID)
	return nil
}

func (s *service) ConfirmUpload(ctx context.Context, id, callerID uuid.UUID) (*domain.Document, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpload(caller, doc.UserID) {
		return nil, domain.Forbidden("only the owner can confirm an upload")
	}

	exists, err := s.store.Exists(ctx, doc.StorageKey)
	if err != nil {
		return nil, domain.DependencyFailure("check uploaded object", err)
	}
	if !exists {
		return nil, domain.ValidationError("file has not been uploaded yet")
	}

	if doc.ConfirmedAt == nil {
		at := s.now().UTC()
		if err := s.docRepo.MarkConfirmed(ctx, doc.ID, at); err != nil {
			return nil, domain.DependencyFailure("confirm upload", err)
		}
		doc.ConfirmedAt = &at
	}
	return doc, nil
}

func (s *service) Review(ctx context.Context, id, callerID uuid.UUID, input domain.ReviewInput, meta *domain.RequestMeta) (*domain.Document, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReview(caller) {
		return nil, domain.Forbidden("only admins can review documents")
	}

	if !input.Status.IsReviewOutcome() {
		return nil, domain.ValidationError("status must be APPROVED or REJECTED")
	}
	var notes *string
	if input.Status == domain.DocumentRejected {
		trimmed := input.TrimmedNotes()
		if trimmed == "" {
			return nil, domain.ValidationError("notes are required when rejecting a document")
		}
		notes = &trimmed
	}

	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentPending {
		return nil, domain.ValidationError("document has already been reviewed")
	}

	updated, err := s.docRepo.UpdateReview(ctx, id, input.Status, caller.ID, notes, s.now().UTC())
	if err != nil {
		return nil, domain.DependencyFailure("update review", err)
	}
	if updated == nil {
		// Deleted, superseded or reviewed since it was read.
		current, err := s.docRepo.GetByID(ctx, id)
		if err != nil {
			return nil, domain.DependencyFailure("load document", err)
		}
		if current == nil {
			return nil, domain.NotFound("document")
		}
		return nil, domain.ValidationError("document has already been reviewed")
	}

	s.logger.Info("document reviewed",
		"document_id", updated.ID, "user_id", updated.UserID,
		"reviewer_id", caller.ID, "status", updated.Status)

	s.recordAudit(audit.Entry{
		ActorID:    caller.ID,
		Action:     domain.AuditReviewDocument,
		EntityType: entityDocument,
		EntityID:   updated.ID,
		OldValue:   map[string]any{"status": doc.Status},
		NewValue:   map[string]any{"status": updated.Status, "notes": updated.Notes},
		Meta:       meta,
	})

	reviewed := *updated
	s.dispatch("notify_document_reviewed", updated.ID, func(ctx context.Context) error {
		owner, err := s.userRepo.GetByID(ctx, reviewed.UserID)
		if err != nil {
			return err
		}
		return s.notifSvc.NotifyDocumentReviewed(ctx, &reviewed, owner)
	})
	s.invalidateStats(updated.ID)

	return updated, nil
}

func (s *service) Get(ctx context.Context, id, callerID uuid.UUID) (*domain.DocumentWithURL, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(caller, doc) {
		return nil, domain.Forbidden("cannot access this document")
	}

	url, err := s.store.PresignGet(ctx, doc.StorageKey, s.opts.DownloadURLTTL)
	if err != nil {
		return nil, domain.DependencyFailure("presign download", err)
	}
	return &domain.DocumentWithURL{Document: *doc, DownloadURL: url}, nil
}

func (s *service) Delete(ctx context.Context, id, callerID uuid.UUID, meta *domain.RequestMeta) error {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return err
	}
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(caller, doc) {
		return domain.Forbidden("cannot delete this document")
	}

	deleted, err := s.docRepo.Delete(ctx, doc.ID)
	if err != nil {
		return domain.DependencyFailure("delete document", err)
	}
	if !deleted {
		return domain.NotFound("document")
	}
	s.deleteObject(doc.StorageKey, doc.ID)

	s.logger.Info("document deleted", "document_id", doc.ID, "user_id", doc.UserID, "deleted_by", caller.ID)

	s.recordAudit(audit.Entry{
		ActorID:    caller.ID,
		Action:     domain.AuditDeleteDocument,
		EntityType: entityDocument,
		EntityID:   doc.ID,
		OldValue:   doc,
		Meta:       meta,
	})
	s.invalidateStats(doc.ID)
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID, callerID uuid.UUID) ([]domain.Document, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.CanListFor(caller, userID) {
		return nil, domain.Forbidden("cannot list documents of another user")
	}

	docs, err := s.docRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.DependencyFailure("list documents", err)
	}
	return docs, nil
}

func (s *service) ListAll(ctx context.Context, callerID uuid.UUID, filter domain.DocumentFilter) (domain.PaginatedResponse[domain.Document], error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return domain.PaginatedResponse[domain.Document]{}, err
	}
	if !caller.IsAdmin() {
		return domain.PaginatedResponse[domain.Document]{}, domain.Forbidden("only admins can list all documents")
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return domain.PaginatedResponse[domain.Document]{}, domain.ValidationError("unknown status %q", *filter.Status)
	}
	if filter.DocumentType != nil && !filter.DocumentType.IsValid() {
		return domain.PaginatedResponse[domain.Document]{}, domain.ValidationError("unknown document type %q", *filter.DocumentType)
	}

	filter.Pagination.Validate()
	docs, total, err := s.docRepo.List(ctx, filter)
	if err != nil {
		return domain.PaginatedResponse[domain.Document]{}, domain.DependencyFailure("list documents", err)
	}
	return domain.NewPaginatedResponse(docs, filter.Pagination, total), nil
}

// loadCaller re-reads the caller so role changes apply immediately.
func (s *service) loadCaller(ctx context.Context, callerID uuid.UUID) (*domain.User, error) {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, domain.DependencyFailure("load caller", err)
	}
	if caller == nil {
		return nil, domain.NotFound("user")
	}
	return caller, nil
}

func (s *service) loadDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.DependencyFailure("load document", err)
	}
	if doc == nil {
		return nil, domain.NotFound("document")
	}
	return doc, nil
}

func (s *service) deleteObject(key string, docID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete document object", "document_id", docID, "storage_key", key, "error", err)
	}
}

func (s *service) recordAudit(entry audit.Entry) {
	if s.auditSvc == nil {
		return
	}
	s.dispatch("record_audit", entry.EntityID, func(ctx context.Context) error {
		return s.auditSvc.Record(ctx, entry)
	})
}

func (s *service) invalidateStats(docID uuid.UUID) {
	if s.stats == nil {
		return
	}
	s.dispatch("invalidate_stats", docID, s.stats.Invalidate)
}

func (s *service) dispatch(name string, docID uuid.UUID, task dispatch.Task) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Go(name, task, "document_id", docID)
}
