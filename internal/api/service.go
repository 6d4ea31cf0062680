package api

import (
	"context"
	"time"

	"github.com/starford/centrallog/internal/ai"
	"github.com/starford/centrallog/internal/analytics"
	"github.com/starford/centrallog/internal/apperr"
	"github.com/starford/centrallog/internal/models"
	"github.com/starford/centrallog/internal/repository"
	"github.com/starford/centrallog/internal/settings"
)

// DefaultDigestLimit caps each digest section when the caller does not ask
// for a specific size.
const DefaultDigestLimit = 20

// Service coordinates repository, analytics, settings, and summarization
// for the API layer.
type Service struct {
	repo  *repository.Repository
	prefs *settings.Store

	aiModel   string
	aiBaseURL string
	aiTimeout time.Duration
}

// NewService creates a new API service. aiModel and aiBaseURL are the
// config-level defaults; per-user settings may override the model and key.
func NewService(repo *repository.Repository, prefs *settings.Store, aiModel, aiBaseURL string, aiTimeout time.Duration) *Service {
	return &Service{
		repo:      repo,
		prefs:     prefs,
		aiModel:   aiModel,
		aiBaseURL: aiBaseURL,
		aiTimeout: aiTimeout,
	}
}

// ListRecords returns all records, newest first.
func (s *Service) ListRecords(_ context.Context) []*models.Record {
	return s.repo.ListRecords()
}

// ListLogs returns all log entries, newest first.
func (s *Service) ListLogs(_ context.Context) []*models.LogEntry {
	return s.repo.ListLogs()
}

// SaveRecord persists a record, reusing existingPath's base name when given.
func (s *Service) SaveRecord(_ context.Context, record *models.Record, existingPath string) (*models.Record, error) {
	return s.repo.SaveRecord(record, existingPath)
}

// DeleteRecord removes the record stored at jsonPath together with its
// Markdown sibling. Unknown paths yield apperr.ErrNotFound.
func (s *Service) DeleteRecord(_ context.Context, jsonPath string) error {
	for _, record := range s.repo.ListRecords() {
		if record.JSONPath == jsonPath {
			return s.repo.DeleteRecord(record)
		}
	}
	return apperr.ErrNotFound
}

// Stats recomputes the dashboard statistics from a fresh scan.
func (s *Service) Stats(_ context.Context) *analytics.DashboardStats {
	return analytics.ComputeDashboardStats(s.repo.ListRecords(), s.repo.ListLogs(), time.Now())
}

// Digest builds the bounded context digest from a fresh scan.
func (s *Service) Digest(_ context.Context, limit int) string {
	if limit <= 0 {
		limit = DefaultDigestLimit
	}
	return analytics.BuildContextDigest(s.repo.ListRecords(), s.repo.ListLogs(), limit)
}

// Analyze produces either the offline local report or a remote summarization
// of the current digest, focused by prompt.
func (s *Service) Analyze(ctx context.Context, prompt string, local bool) (string, error) {
	if local {
		return ai.LocalAnalysis(s.Stats(ctx), prompt), nil
	}

	model := s.prefs.Get(settings.KeyOpenAIModel)
	if model == "" {
		model = s.aiModel
	}
	analyzer := ai.New(s.prefs.Get(settings.KeyOpenAIKey),
		ai.WithModel(model),
		ai.WithBaseURL(s.aiBaseURL),
		ai.WithTimeout(s.aiTimeout),
	)
	return analyzer.Analyze(ctx, prompt, s.Digest(ctx, DefaultDigestLimit))
}

// Settings returns the whole preferences blob.
func (s *Service) Settings(_ context.Context) map[string]string {
	return s.prefs.All()
}

// UpdateSettings replaces the preferences blob and persists it.
func (s *Service) UpdateSettings(_ context.Context, blob map[string]string) error {
	s.prefs.Replace(blob)
	return s.prefs.Save()
}
