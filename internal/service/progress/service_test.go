package progress

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// Mock repositories for testing
type mockChallengeRepository struct {
	challenges map[string]*models.Challenge
}

func newMockChallengeRepository() *mockChallengeRepository {
	return &mockChallengeRepository{challenges: make(map[string]*models.Challenge)}
}

func (m *mockChallengeRepository) GetByID(id string) (*models.Challenge, error) {
	return m.challenges[id], nil
}

type mockParticipantRepository struct {
	participations map[string]*models.ChallengeParticipant
}

func newMockParticipantRepository() *mockParticipantRepository {
	return &mockParticipantRepository{participations: make(map[string]*models.ChallengeParticipant)}
}

func (m *mockParticipantRepository) GetParticipation(challengeID, callsign string) (*models.ChallengeParticipant, error) {
	return m.participations[challengeID+":"+callsign], nil
}

type mockProgressRepository struct {
	rows      map[string]*models.Progress
	upsertErr error
}

func newMockProgressRepository() *mockProgressRepository {
	return &mockProgressRepository{rows: make(map[string]*models.Progress)}
}

func (m *mockProgressRepository) Upsert(challengeID, callsign string, completedGoals []string, currentValue, score int, currentTier *string, lastQsoDate *time.Time) (*models.Progress, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	goalsJSON, _ := json.Marshal(completedGoals)
	row := &models.Progress{
		ID:             "row-" + callsign,
		ChallengeID:    challengeID,
		Callsign:       callsign,
		CompletedGoals: goalsJSON,
		CurrentValue:   currentValue,
		Score:          score,
		CurrentTier:    currentTier,
		LastQsoDate:    lastQsoDate,
		UpdatedAt:      time.Now().UTC(),
	}
	m.rows[challengeID+":"+callsign] = row
	return row, nil
}

func (m *mockProgressRepository) Get(challengeID, callsign string) (*models.Progress, error) {
	return m.rows[challengeID+":"+callsign], nil
}

type mockRanker struct {
	ranks map[string]int64
}

func newMockRanker() *mockRanker {
	return &mockRanker{ranks: make(map[string]int64)}
}

func (m *mockRanker) Rank(ctx context.Context, challengeID, callsign string) (int64, error) {
	return m.ranks[callsign], nil
}

func setupTestService() (*Service, *mockChallengeRepository, *mockParticipantRepository, *mockProgressRepository, *mockRanker) {
	challengeRepo := newMockChallengeRepository()
	participantRepo := newMockParticipantRepository()
	progressRepo := newMockProgressRepository()
	ranker := newMockRanker()
	log := logger.New("debug", "console", "stdout")

	service := NewServiceWithInterfaces(challengeRepo, participantRepo, progressRepo, ranker, log)
	return service, challengeRepo, participantRepo, progressRepo, ranker
}

func seedChallenge(repo *mockChallengeRepository, id, configuration string) {
	repo.challenges[id] = &models.Challenge{
		ID:            id,
		Name:          "Test Challenge",
		Configuration: json.RawMessage(configuration),
		IsActive:      true,
	}
}

func TestReport_ChallengeNotFound(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	_, err := service.Report(context.Background(), "missing", "AB1CD", ReportRequest{})
	appErr := apperr.From(err)
	if appErr.Code != "CHALLENGE_NOT_FOUND" {
		t.Errorf("Expected CHALLENGE_NOT_FOUND, got %q", appErr.Code)
	}
}

func TestReport_NotParticipating(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", `{}`)

	_, err := service.Report(context.Background(), "ch-1", "AB1CD", ReportRequest{})
	if !errors.Is(err, apperr.ErrNotParticipating) {
		t.Errorf("Expected ErrNotParticipating, got %v", err)
	}
}

func TestReport_CountMethod(t *testing.T) {
	service, challengeRepo, participantRepo, progressRepo, ranker := setupTestService()
	seedChallenge(challengeRepo, "ch-1", `{
		"scoring": {"method": "count"},
		"goals": {"type": "collection", "items": [{}, {}, {}, {}]},
		"tiers": [{"threshold": 0, "id": "bronze"}, {"threshold": 3, "id": "silver"}]
	}`)
	participantRepo.participations["ch-1:AB1CD"] = &models.ChallengeParticipant{Status: "active"}
	ranker.ranks["AB1CD"] = 2

	resp, err := service.Report(context.Background(), "ch-1", "AB1CD", ReportRequest{
		CompletedGoals: []string{"g1", "g2", "g3"},
	})
	if err != nil {
		t.Fatalf("Report() failed: %v", err)
	}

	if !resp.Accepted {
		t.Error("Expected report to be accepted")
	}
	if resp.ServerProgress.Score != 3 {
		t.Errorf("Expected count score 3, got %d", resp.ServerProgress.Score)
	}
	if resp.ServerProgress.Percentage != 75 {
		t.Errorf("Expected percentage 75, got %v", resp.ServerProgress.Percentage)
	}
	if resp.ServerProgress.Rank != 2 {
		t.Errorf("Expected rank 2, got %d", resp.ServerProgress.Rank)
	}
	if resp.ServerProgress.CurrentTier == nil || *resp.ServerProgress.CurrentTier != "silver" {
		t.Errorf("Expected tier silver, got %v", resp.ServerProgress.CurrentTier)
	}
	if resp.NewBadges == nil || len(resp.NewBadges) != 0 {
		t.Errorf("Expected empty newBadges list, got %v", resp.NewBadges)
	}

	stored := progressRepo.rows["ch-1:AB1CD"]
	if stored == nil {
		t.Fatal("Expected progress row persisted")
	}
	if stored.Score != 3 {
		t.Errorf("Expected persisted score 3, got %d", stored.Score)
	}
}

func TestReport_AsymmetricScoreAndPercentage(t *testing.T) {
	service, challengeRepo, participantRepo, _, _ := setupTestService()
	// Points scoring over a collection goal: score and percentage follow
	// different config paths.
	seedChallenge(challengeRepo, "ch-1", `{
		"scoring": {"method": "points"},
		"goals": {"type": "collection", "items": [{}, {}]}
	}`)
	participantRepo.participations["ch-1:AB1CD"] = &models.ChallengeParticipant{Status: "active"}

	resp, err := service.Report(context.Background(), "ch-1", "AB1CD", ReportRequest{
		CompletedGoals: []string{"g1"},
		CurrentValue:   500,
	})
	if err != nil {
		t.Fatalf("Report() failed: %v", err)
	}

	if resp.ServerProgress.Score != 500 {
		t.Errorf("Expected points score 500, got %d", resp.ServerProgress.Score)
	}
	if resp.ServerProgress.Percentage != 50 {
		t.Errorf("Expected collection percentage 50, got %v", resp.ServerProgress.Percentage)
	}
}

func TestReport_NilGoalsBecomeEmptyList(t *testing.T) {
	service, challengeRepo, participantRepo, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", `{}`)
	participantRepo.participations["ch-1:AB1CD"] = &models.ChallengeParticipant{Status: "active"}

	resp, err := service.Report(context.Background(), "ch-1", "AB1CD", ReportRequest{})
	if err != nil {
		t.Fatalf("Report() failed: %v", err)
	}
	if resp.ServerProgress.CompletedGoals == nil {
		t.Error("Expected completedGoals to be an empty list, not null")
	}
}

func TestReport_UpsertFailureSurfacesAsInternal(t *testing.T) {
	service, challengeRepo, participantRepo, progressRepo, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", `{}`)
	participantRepo.participations["ch-1:AB1CD"] = &models.ChallengeParticipant{Status: "active"}
	progressRepo.upsertErr = errors.New("connection reset")

	_, err := service.Report(context.Background(), "ch-1", "AB1CD", ReportRequest{})
	appErr := apperr.From(err)
	if appErr.Code != "INTERNAL_ERROR" {
		t.Errorf("Expected INTERNAL_ERROR, got %q", appErr.Code)
	}
}

func TestGet_ReconstructsFromStoredRow(t *testing.T) {
	service, challengeRepo, participantRepo, progressRepo, ranker := setupTestService()
	seedChallenge(challengeRepo, "ch-1", `{
		"goals": {"type": "collection", "items": [{}, {}, {}, {}]}
	}`)
	participantRepo.participations["ch-1:AB1CD"] = &models.ChallengeParticipant{Status: "active"}
	ranker.ranks["AB1CD"] = 7

	if _, err := progressRepo.Upsert("ch-1", "AB1CD", []string{"g1", "g2"}, 2, 2, nil, nil); err != nil {
		t.Fatalf("Seed upsert failed: %v", err)
	}

	sp, err := service.Get(context.Background(), "ch-1", "AB1CD")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if sp.Score != 2 {
		t.Errorf("Expected stored score 2, got %d", sp.Score)
	}
	if sp.Rank != 7 {
		t.Errorf("Expected fresh rank 7, got %d", sp.Rank)
	}
	if sp.Percentage != 50 {
		t.Errorf("Expected recomputed percentage 50, got %v", sp.Percentage)
	}
}

func TestGet_NoProgressRow(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", `{}`)

	_, err := service.Get(context.Background(), "ch-1", "AB1CD")
	if !errors.Is(err, apperr.ErrNotParticipating) {
		t.Errorf("Expected ErrNotParticipating for a missing row, got %v", err)
	}
}
