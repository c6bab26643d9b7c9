package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/team"
	"github.com/adimehta/auction-tracker/internal/platform/resilience"
)

type StatsService struct {
	reportRepo auction.Repository
	teamRepo   team.Repository

	// group collapses concurrent composite reads; each completed call still
	// re-scans the store, nothing is cached.
	group resilience.SingleFlight
}

func NewStatsService(reportRepo auction.Repository, teamRepo team.Repository) *StatsService {
	return &StatsService{reportRepo: reportRepo, teamRepo: teamRepo}
}

// Report assembles the dashboard composite. The four views are independent
// reads, so they run concurrently.
func (s *StatsService) Report(ctx context.Context) (auction.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Report")
	defer span.End()

	value, err, _ := s.group.Do("report", func() (any, error) {
		return s.buildReport(ctx)
	})
	if err != nil {
		return auction.Report{}, err
	}

	report, ok := value.(auction.Report)
	if !ok {
		return auction.Report{}, fmt.Errorf("unexpected report payload type %T", value)
	}

	return report, nil
}

func (s *StatsService) buildReport(ctx context.Context) (auction.Report, error) {
	var report auction.Report

	workers := pool.New().WithErrors().WithContext(ctx)
	workers.Go(func(ctx context.Context) error {
		overview, err := s.reportRepo.Overview(ctx)
		if err != nil {
			return fmt.Errorf("report overview: %w", err)
		}
		report.Overview = overview
		return nil
	})
	workers.Go(func(ctx context.Context) error {
		byRole, err := s.reportRepo.RoleStats(ctx, nil)
		if err != nil {
			return fmt.Errorf("report role stats: %w", err)
		}
		report.ByRole = byRole
		return nil
	})
	workers.Go(func(ctx context.Context) error {
		topBids, err := s.reportRepo.TopBids(ctx, auction.TopBidLimit)
		if err != nil {
			return fmt.Errorf("report top bids: %w", err)
		}
		report.TopBids = topBids
		return nil
	})
	workers.Go(func(ctx context.Context) error {
		spending, err := s.reportRepo.TeamSpending(ctx)
		if err != nil {
			return fmt.Errorf("report team spending: %w", err)
		}
		report.TeamSpending = spending
		return nil
	})

	if err := workers.Wait(); err != nil {
		return auction.Report{}, err
	}

	return report, nil
}

func (s *StatsService) Overview(ctx context.Context) (auction.Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Overview")
	defer span.End()

	overview, err := s.reportRepo.Overview(ctx)
	if err != nil {
		return auction.Overview{}, fmt.Errorf("report overview: %w", err)
	}

	return overview, nil
}

// RoleStats narrows to one team when teamID is set; the team must exist.
func (s *StatsService) RoleStats(ctx context.Context, teamID *int64) ([]auction.RoleStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RoleStats")
	defer span.End()

	if teamID != nil {
		if *teamID <= 0 {
			return nil, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
		}
		_, exists, err := s.teamRepo.GetByID(ctx, *teamID)
		if err != nil {
			return nil, fmt.Errorf("get team by id: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: team=%d", ErrNotFound, *teamID)
		}
	}

	items, err := s.reportRepo.RoleStats(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("report role stats: %w", err)
	}

	return items, nil
}

func (s *StatsService) TopBids(ctx context.Context) ([]auction.TopBid, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TopBids")
	defer span.End()

	items, err := s.reportRepo.TopBids(ctx, auction.TopBidLimit)
	if err != nil {
		return nil, fmt.Errorf("report top bids: %w", err)
	}

	return items, nil
}

func (s *StatsService) TeamSpending(ctx context.Context) ([]auction.TeamSpending, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TeamSpending")
	defer span.End()

	items, err := s.reportRepo.TeamSpending(ctx)
	if err != nil {
		return nil, fmt.Errorf("report team spending: %w", err)
	}

	return items, nil
}
