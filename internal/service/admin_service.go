package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/dto"
	"github.com/noah-isme/admisia-go-api/internal/repository"
)

const dashboardCacheKey = "admisia:dashboard:stats"

// AdminService serves staff-facing reporting: pipeline statistics and the
// audit trail.
type AdminService interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	AuditLog(ctx context.Context, filter repository.AuditLogFilter) ([]dto.AuditLogResponse, int64, error)
}

type adminService struct {
	applications repository.ApplicationRepository
	audit        repository.AuditLogRepository
	redis        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAdminService constructs an AdminService. The redis client may be nil;
// statistics are then computed on every request.
func NewAdminService(
	applications repository.ApplicationRepository,
	audit repository.AuditLogRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) AdminService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &adminService{
		applications: applications,
		audit:        audit,
		redis:        redisClient,
		cacheTTL:     cacheTTL,
		logger:       logger.With().Str("component", "admin_service").Logger(),
		now:          time.Now,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		}
	}

	counts, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	statusCounts := make(map[string]int64, len(counts))
	var total int64
	for status, count := range counts {
		statusCounts[string(status)] = count
		total += count
	}

	response := dto.DashboardResponse{
		StatusCounts:      statusCounts,
		TotalApplications: total,
		GeneratedAt:       s.now().UTC(),
	}

	if s.redis != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache dashboard statistics")
			}
		}
	}

	return response, nil
}

func (s *adminService) AuditLog(ctx context.Context, filter repository.AuditLogFilter) ([]dto.AuditLogResponse, int64, error) {
	entries, total, err := s.audit.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewAuditLogResponseSlice(entries), total, nil
}
