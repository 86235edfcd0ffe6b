package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/repository"
)

const cacheKey = "dashboard:stats"

type TypeStats struct {
	DocumentType domain.DocumentType `json:"document_type"`
	Label        string              `json:"label"`
	Pending      int64               `json:"pending"`
	Approved     int64               `json:"approved"`
	Rejected     int64               `json:"rejected"`
	Missing      int64               `json:"missing"`
}

type Stats struct {
	TotalEmployees       int64                           `json:"total_employees"`
	OnboardingInProgress int64                           `json:"onboarding_in_progress"`
	OnboardingCompleted  int64                           `json:"onboarding_completed"`
	DocumentsByStatus    map[domain.DocumentStatus]int64 `json:"documents_by_status"`
	DocumentsByType      []TypeStats                     `json:"documents_by_type"`
	PendingReviews       int64                           `json:"pending_reviews"`
	GeneratedAt          time.Time                       `json:"generated_at"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	Invalidate(ctx context.Context) error
}

type service struct {
	docRepo  repository.DocumentRepository
	userRepo repository.UserRepository
	redis    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(docRepo repository.DocumentRepository, userRepo repository.UserRepository, redis *redis.Client, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		docRepo:  docRepo,
		userRepo: userRepo,
		redis:    redis,
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", "error", err)
		}
	}

	onboarding, err := s.userRepo.CountByOnboardingStatus(ctx)
	if err != nil {
		return nil, domain.DependencyFailure("count employees", err)
	}

	counts, err := s.docRepo.CountByTypeAndStatus(ctx)
	if err != nil {
		return nil, domain.DependencyFailure("count documents", err)
	}

	stats := aggregate(onboarding, counts)
	stats.GeneratedAt = time.Now().UTC()

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, cacheKey, statsJSON, s.ttl).Err(); err != nil {
				s.logger.Warn("dashboard cache write failed", "error", err)
			}
		}
	}

	return stats, nil
}

func (s *service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKey).Err()
}

func aggregate(onboarding map[domain.OnboardingStatus]int64, counts []domain.DocumentCount) *Stats {
	stats := &Stats{
		OnboardingInProgress: onboarding[domain.OnboardingInProgress],
		OnboardingCompleted:  onboarding[domain.OnboardingCompleted],
		DocumentsByStatus: map[domain.DocumentStatus]int64{
			domain.DocumentPending:  0,
			domain.DocumentApproved: 0,
			domain.DocumentRejected: 0,
		},
	}
	stats.TotalEmployees = stats.OnboardingInProgress + stats.OnboardingCompleted

	byType := make(map[domain.DocumentType]*TypeStats, len(domain.DocumentTypes))
	for _, t := range domain.DocumentTypes {
		stats.DocumentsByType = append(stats.DocumentsByType, TypeStats{DocumentType: t, Label: t.Label()})
	}
	for i := range stats.DocumentsByType {
		byType[stats.DocumentsByType[i].DocumentType] = &stats.DocumentsByType[i]
	}

	for _, c := range counts {
		stats.DocumentsByStatus[c.Status] += c.Count
		ts, ok := byType[c.DocumentType]
		if !ok {
			continue
		}
		switch c.Status {
		case domain.DocumentPending:
			ts.Pending += c.Count
		case domain.DocumentApproved:
			ts.Approved += c.Count
		case domain.DocumentRejected:
			ts.Rejected += c.Count
		}
	}

	for i := range stats.DocumentsByType {
		ts := &stats.DocumentsByType[i]
		ts.Missing = max(stats.TotalEmployees-ts.Pending-ts.Approved-ts.Rejected, 0)
	}
	stats.PendingReviews = stats.DocumentsByStatus[domain.DocumentPending]
	return stats
}
