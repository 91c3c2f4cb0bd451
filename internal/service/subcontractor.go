package service

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitework/internal/config"
	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/repository/memory"
	"sitework/internal/scoring"
)

// SubcontractorService implements the subcontractor list/create surface plus
// the performance rollups.
type SubcontractorService struct {
	repo     repositories.SubcontractorRepository
	recorder *Recorder
	logger   *slog.Logger
}

func NewSubcontractorService(repo repositories.SubcontractorRepository, recorder *Recorder, logger *slog.Logger) *SubcontractorService {
	return &SubcontractorService{repo: repo, recorder: recorder, logger: logger}
}

type CreateSubcontractorRequest struct {
	Name            string     `json:"name"`
	CompanyID       string     `json:"company_id"`
	Trade           string     `json:"trade"`
	ContactEmail    string     `json:"contact_email"`
	Phone           string     `json:"phone"`
	Rating          float64    `json:"rating"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`
}

func (r CreateSubcontractorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, config.MaxNameLength)),
		validation.Field(&r.CompanyID, validation.Required.Error("company_id is required")),
		validation.Field(&r.Trade, validation.Required.Error("trade is required")),
		validation.Field(&r.Rating, validation.Max(5.0).Error("rating cannot exceed 5")),
	)
}

// SubcontractorSummary carries the performance rollups: per-trade counts,
// average rating, on-time rate and the expiring-insurance watchlist.
type SubcontractorSummary struct {
	Total            int            `json:"total"`
	ByTrade          map[string]int `json:"by_trade"`
	AverageRating    float64        `json:"average_rating"`
	AverageOnTime    float64        `json:"average_on_time_rate"`
	InsuranceExpired int            `json:"insurance_expired"`
	TopPerformers    []NameCount    `json:"top_performers"`
}

func (s *SubcontractorService) List(ctx context.Context, caller models.AuthContext, filter repositories.SubcontractorFilter) ([]models.Subcontractor, *SubcontractorSummary, error) {
	filter.CompanyID = scopeCompany(caller, filter.CompanyID)

	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	now := nowUTC()
	summary := &SubcontractorSummary{Total: len(subs), ByTrade: map[string]int{}}
	jobs := map[string]int{}
	var ratingSum, onTimeSum float64
	for _, sc := range subs {
		summary.ByTrade[sc.Trade]++
		ratingSum += sc.Rating
		onTimeSum += sc.OnTimeRate
		jobs[sc.Name] = sc.JobsCompleted
		if sc.InsuranceExpiry != nil && sc.InsuranceExpiry.Before(now) {
			summary.InsuranceExpired++
		}
	}
	if len(subs) > 0 {
		summary.AverageRating = scoring.Round2(ratingSum / float64(len(subs)))
		summary.AverageOnTime = scoring.Round2(onTimeSum / float64(len(subs)))
	}
	summary.TopPerformers = topN(jobs, config.TopRankingSize)

	return subs, summary, nil
}

// UpdateSubcontractorRequest carries partial-update fields.
type UpdateSubcontractorRequest struct {
	Name            *string    `json:"name"`
	Trade           *string    `json:"trade"`
	ContactEmail    *string    `json:"contact_email"`
	Phone           *string    `json:"phone"`
	Status          *string    `json:"status"`
	Rating          *float64   `json:"rating"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`
	JobsCompleted   *int       `json:"jobs_completed"`
	OnTimeRate      *float64   `json:"on_time_rate"`
}

func (s *SubcontractorService) Get(ctx context.Context, caller models.AuthContext, id string) (*models.Subcontractor, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, sc.CompanyID, "subcontractor"); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *SubcontractorService) Update(ctx context.Context, caller models.AuthContext, id string, req *UpdateSubcontractorRequest) (*Mutation[*models.Subcontractor], error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(caller, sc.CompanyID, "subcontractor"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		sc.Name = *req.Name
	}
	if req.Trade != nil {
		sc.Trade = *req.Trade
	}
	if req.ContactEmail != nil {
		sc.ContactEmail = *req.ContactEmail
	}
	if req.Phone != nil {
		sc.Phone = *req.Phone
	}
	if req.Status != nil {
		sc.Status = *req.Status
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return nil, domain.Validationf("rating must be between 0 and 5")
		}
		sc.Rating = *req.Rating
	}
	if req.InsuranceExpiry != nil {
		sc.InsuranceExpiry = req.InsuranceExpiry
	}
	if req.JobsCompleted != nil {
		sc.JobsCompleted = *req.JobsCompleted
	}
	if req.OnTimeRate != nil {
		sc.OnTimeRate = *req.OnTimeRate
	}
	sc.UpdatedAt = nowUTC()

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}

	activity := s.recorder.Record(ctx, caller, models.ActionUpdated, "subcontractor", sc.ID, sc.Name, "", "")
	return &Mutation[*models.Subcontractor]{Record: sc, Activity: activity}, nil
}

func (s *SubcontractorService) Create(ctx context.Context, caller models.AuthContext, req *CreateSubcontractorRequest) (*Mutation[*models.Subcontractor], error) {
	if !caller.IsSuperAdmin() {
		req.CompanyID = caller.CompanyID
	}
	if err := req.Validate(); err != nil {
		return nil, domain.Validationf("%v", err)
	}

	now := nowUTC()
	sc := &models.Subcontractor{
		ID:              memory.NewID("sub"),
		CompanyID:       req.CompanyID,
		Name:            req.Name,
		Trade:           req.Trade,
		ContactEmail:    req.ContactEmail,
		Phone:           req.Phone,
		Status:          "active",
		Rating:          req.Rating,
		InsuranceExpiry: req.InsuranceExpiry,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}

	s.logger.Info("subcontractor created", "subcontractor_id", sc.ID, "trade", sc.Trade)
	activity := s.recorder.Record(ctx, caller, models.ActionCreated, "subcontractor", sc.ID, sc.Name, "", "")
	return &Mutation[*models.Subcontractor]{Record: sc, Activity: activity}, nil
}
