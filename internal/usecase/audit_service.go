package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
	"github.com/adimehta/auction-tracker/internal/domain/team"
)

type AuditInput struct {
	MaxWorkers int
}

type AuditResult struct {
	TeamCount      int            `json:"team_count"`
	OverspentCount int            `json:"overspent_count"`
	WorkerCount    int            `json:"worker_count"`
	DurationMs     int64          `json:"duration_ms"`
	Teams          []AuditTeamRow `json:"teams"`
}

type AuditTeamRow struct {
	TeamID      int64  `json:"team_id"`
	TeamName    string `json:"team_name"`
	MaxPurse    int64  `json:"max_purse"`
	Spent       int64  `json:"spent"`
	Remaining   int64  `json:"remaining"`
	PlayerCount int    `json:"player_count"`
	Overspent   bool   `json:"overspent"`
}

type AuditService struct {
	teamRepo       team.Repository
	playerRepo     player.Repository
	defaultWorkers int
}

func NewAuditService(teamRepo team.Repository, playerRepo player.Repository, defaultWorkers int) *AuditService {
	if defaultWorkers < 1 {
		defaultWorkers = 1
	}
	return &AuditService{
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		defaultWorkers: defaultWorkers,
	}
}

// Run recomputes each team's spend from its sold players and flags teams
// whose remaining purse has gone negative, which a blunt max-purse reset can
// cause. Teams are checked concurrently on a bounded worker pool.
func (s *AuditService) Run(ctx context.Context, input AuditInput) (AuditResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.Run")
	defer span.End()

	start := time.Now()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return AuditResult{}, fmt.Errorf("list teams: %w", err)
	}

	workerCount := input.MaxWorkers
	if workerCount < 1 {
		workerCount = s.defaultWorkers
	}
	if workerCount > len(teams) && len(teams) > 0 {
		workerCount = len(teams)
	}
	if workerCount < 1 {
		workerCount = 1
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return AuditResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	rows := make(chan AuditTeamRow, len(teams))
	errs := make(chan error, len(teams))
	var overspentCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range teams {
		item := item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			roster, listErr := s.playerRepo.List(ctx, player.Filter{TeamID: &item.ID, Status: player.StatusSold})
			if listErr != nil {
				errs <- fmt.Errorf("list players for team %d: %w", item.ID, listErr)
				return
			}

			spent := auction.Spent(roster)
			remaining := auction.Remaining(item.MaxPurse, spent)
			row := AuditTeamRow{
				TeamID:      item.ID,
				TeamName:    item.Name,
				MaxPurse:    item.MaxPurse,
				Spent:       spent,
				Remaining:   remaining,
				PlayerCount: len(roster),
				Overspent:   remaining < 0,
			}
			if row.Overspent {
				overspentCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return AuditResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)
	close(errs)

	if err := <-errs; err != nil {
		return AuditResult{}, err
	}

	result := AuditResult{
		TeamCount:      len(teams),
		OverspentCount: int(overspentCount.Load()),
		WorkerCount:    workerCount,
		Teams:          make([]AuditTeamRow, 0, len(teams)),
	}
	for row := range rows {
		result.Teams = append(result.Teams, row)
	}
	sort.SliceStable(result.Teams, func(i, j int) bool {
		return result.Teams[i].TeamID < result.Teams[j].TeamID
	})
	result.DurationMs = time.Since(start).Milliseconds()

	return result, nil
}
