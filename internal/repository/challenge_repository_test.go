package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// setupChallengeTestDB creates an in-memory SQLite database for testing.
func setupChallengeTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.Progress{},
		&models.InviteToken{},
		&models.Badge{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

// createTestChallenge creates a test challenge in the database.
func createTestChallenge(t *testing.T, repo *ChallengeRepository, name, category string, active bool) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		Name:          name,
		Category:      category,
		ChallengeType: "collection",
		Configuration: []byte(`{"scoring": {"method": "count"}}`),
		IsActive:      active,
	}
	if err := repo.Create(challenge); err != nil {
		t.Fatalf("Failed to create test challenge: %v", err)
	}
	return challenge
}

func TestChallengeRepository_CreateStartsAtVersionOne(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)

	challenge := createTestChallenge(t, repo, "Summits", "sota", true)
	if challenge.ID == "" {
		t.Error("Expected an id to be assigned")
	}
	if challenge.Version != 1 {
		t.Errorf("Expected version 1 on creation, got %d", challenge.Version)
	}
}

func TestChallengeRepository_UpdateBumpsVersion(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)

	challenge := createTestChallenge(t, repo, "Summits", "sota", true)

	challenge.Description = "Work 10 summits"
	if err := repo.Update(challenge); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if err := repo.Update(challenge); err != nil {
		t.Fatalf("Second Update() failed: %v", err)
	}

	stored, err := repo.GetByID(challenge.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if stored.Version != 3 {
		t.Errorf("Expected version 3 after two updates, got %d", stored.Version)
	}
}

func TestChallengeRepository_GetByIDMissing(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)

	challenge, err := repo.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if challenge != nil {
		t.Errorf("Expected nil for a missing challenge, got %+v", challenge)
	}
}

func TestChallengeRepository_ListFilters(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)

	createTestChallenge(t, repo, "Summits", "sota", true)
	createTestChallenge(t, repo, "Parks", "pota", true)
	createTestChallenge(t, repo, "Old Parks", "pota", false)

	active := true
	items, err := repo.List(ChallengeFilter{Category: "pota", Active: &active})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 active pota challenge, got %d", len(items))
	}
	if items[0].Name != "Parks" {
		t.Errorf("Expected Parks, got %q", items[0].Name)
	}
}

func TestChallengeRepository_ListParticipantCount(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)
	participantRepo := NewParticipantRepository(db)

	challenge := createTestChallenge(t, repo, "Summits", "sota", true)
	for _, cs := range []string{"K1AAA", "K2BBB"} {
		if _, err := participantRepo.Join(challenge.ID, cs, nil); err != nil {
			t.Fatalf("Join() failed: %v", err)
		}
	}

	items, err := repo.List(ChallengeFilter{})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 challenge, got %d", len(items))
	}
	if items[0].ParticipantCount != 2 {
		t.Errorf("Expected participant count 2, got %d", items[0].ParticipantCount)
	}
}

func TestChallengeRepository_DeleteCascades(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)
	participantRepo := NewParticipantRepository(db)
	progressRepo := NewProgressRepository(db)
	inviteRepo := NewInviteRepository(db)

	challenge := createTestChallenge(t, repo, "Summits", "sota", true)
	if _, err := participantRepo.Join(challenge.ID, "K1AAA", nil); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if _, err := progressRepo.Upsert(challenge.ID, "K1AAA", []string{"g1"}, 0, 1, nil, nil); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if err := inviteRepo.Create(&models.InviteToken{Token: "inv_x", ChallengeID: challenge.ID}); err != nil {
		t.Fatalf("Invite Create() failed: %v", err)
	}

	deleted, err := repo.Delete(challenge.ID)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if !deleted {
		t.Fatal("Expected the challenge to be deleted")
	}

	if p, _ := participantRepo.GetParticipation(challenge.ID, "K1AAA"); p != nil {
		t.Error("Expected participations cascaded")
	}
	if row, _ := progressRepo.Get(challenge.ID, "K1AAA"); row != nil {
		t.Error("Expected progress cascaded")
	}
	if inv, _ := inviteRepo.GetByToken("inv_x"); inv != nil {
		t.Error("Expected invites cascaded")
	}
}

func TestChallengeRepository_DeleteMissing(t *testing.T) {
	db := setupChallengeTestDB(t)
	repo := NewChallengeRepository(db)

	deleted, err := repo.Delete("nope")
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted {
		t.Error("Expected false for a missing challenge")
	}
}
