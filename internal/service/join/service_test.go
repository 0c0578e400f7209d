package join

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
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

func (m *mockChallengeRepository) GetByID(id string) (*models.Challenge, error) {
	return m.challenges[id], nil
}

type mockParticipantRepository struct {
	participants   map[string]*models.Participant
	participations map[string]*models.ChallengeParticipant
	counts         map[string]int64
}

func (m *mockParticipantRepository) GetOrCreate(callsign string, deviceName *string, deviceToken string) (*models.Participant, bool, error) {
	normalized := strings.ToUpper(callsign)
	if p, ok := m.participants[normalized]; ok {
		return p, false, nil
	}
	p := &models.Participant{ID: "part-" + normalized, Callsign: normalized, DeviceToken: deviceToken}
	m.participants[normalized] = p
	return p, true, nil
}

func (m *mockParticipantRepository) GetParticipation(challengeID, callsign string) (*models.ChallengeParticipant, error) {
	return m.participations[challengeID+":"+strings.ToUpper(callsign)], nil
}

func (m *mockParticipantRepository) Join(challengeID, callsign string, inviteToken *string) (*models.ChallengeParticipant, error) {
	cp := &models.ChallengeParticipant{
		ID:          "cp-" + strings.ToUpper(callsign),
		ChallengeID: challengeID,
		Callsign:    strings.ToUpper(callsign),
		InviteToken: inviteToken,
		JoinedAt:    time.Now().UTC(),
		Status:      "active",
	}
	m.participations[challengeID+":"+cp.Callsign] = cp
	return cp, nil
}

func (m *mockParticipantRepository) Leave(challengeID, callsign string) (bool, error) {
	key := challengeID + ":" + strings.ToUpper(callsign)
	cp, ok := m.participations[key]
	if !ok || cp.Status != "active" {
		return false, nil
	}
	cp.Status = "left"
	return true, nil
}

func (m *mockParticipantRepository) CountByChallenge(challengeID string) (int64, error) {
	return m.counts[challengeID], nil
}

type mockInviteRepository struct {
	invites map[string]*models.InviteToken
	uses    map[string]int
}

func (m *mockInviteRepository) GetByToken(token string) (*models.InviteToken, error) {
	return m.invites[token], nil
}

func (m *mockInviteRepository) IncrementUse(token string) error {
	m.uses[token]++
	return nil
}

type mockProgressRepository struct {
	deleted []string
}

func (m *mockProgressRepository) Delete(challengeID, callsign string) error {
	m.deleted = append(m.deleted, challengeID+":"+strings.ToUpper(callsign))
	return nil
}

func setupTestService() (*Service, *mockChallengeRepository, *mockParticipantRepository, *mockInviteRepository, *mockProgressRepository) {
	challengeRepo := &mockChallengeRepository{challenges: make(map[string]*models.Challenge)}
	participantRepo := &mockParticipantRepository{
		participants:   make(map[string]*models.Participant),
		participations: make(map[string]*models.ChallengeParticipant),
		counts:         make(map[string]int64),
	}
	inviteRepo := &mockInviteRepository{invites: make(map[string]*models.InviteToken), uses: make(map[string]int)}
	progressRepo := &mockProgressRepository{}
	log := logger.New("debug", "console", "stdout")

	service := NewServiceWithInterfaces(challengeRepo, participantRepo, inviteRepo, progressRepo, log)
	return service, challengeRepo, participantRepo, inviteRepo, progressRepo
}

func seedChallenge(repo *mockChallengeRepository, id string, active bool, inviteConfig, configuration string) {
	ch := &models.Challenge{
		ID:            id,
		Name:          "Test Challenge",
		Configuration: json.RawMessage(configuration),
		IsActive:      active,
	}
	if inviteConfig != "" {
		ch.InviteConfig = json.RawMessage(inviteConfig)
	}
	repo.challenges[id] = ch
}

func intPtr(i int) *int          { return &i }
func strPtr(s string) *string    { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestJoin_OpenChallenge(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, "", `{}`)

	resp, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "ab1cd"})
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}

	if resp.Status != "active" {
		t.Errorf("Expected status active, got %q", resp.Status)
	}
	if !strings.HasPrefix(resp.DeviceToken, "fd_") {
		t.Errorf("Expected a device token to be issued, got %q", resp.DeviceToken)
	}
	if !resp.HistoricalAllowed {
		t.Error("Expected historicalAllowed to default to true")
	}
}

func TestJoin_HistoricalDisallowed(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, "", `{"historicalQsosAllowed": false}`)

	resp, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"})
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if resp.HistoricalAllowed {
		t.Error("Expected historicalAllowed false when the configuration disables it")
	}
}

func TestJoin_ChallengeNotFound(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	_, err := service.Join(context.Background(), "missing", JoinRequest{Callsign: "AB1CD"})
	if apperr.From(err).Code != "CHALLENGE_NOT_FOUND" {
		t.Errorf("Expected CHALLENGE_NOT_FOUND, got %v", err)
	}
}

func TestJoin_InactiveChallenge(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", false, "", `{}`)

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"})
	if !errors.Is(err, apperr.ErrChallengeEnded) {
		t.Errorf("Expected ErrChallengeEnded, got %v", err)
	}
}

func TestJoin_InviteRequired(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, `{"requiresToken": true}`, `{}`)

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"})
	if !errors.Is(err, apperr.ErrInviteRequired) {
		t.Errorf("Expected ErrInviteRequired, got %v", err)
	}
}

func TestJoin_InviteExpired(t *testing.T) {
	service, challengeRepo, _, inviteRepo, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, `{"requiresToken": true}`, `{}`)
	inviteRepo.invites["inv_old"] = &models.InviteToken{
		Token:       "inv_old",
		ChallengeID: "ch-1",
		ExpiresAt:   timePtr(time.Now().UTC().Add(-time.Hour)),
	}

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD", InviteToken: strPtr("inv_old")})
	if !errors.Is(err, apperr.ErrInviteExpired) {
		t.Errorf("Expected ErrInviteExpired, got %v", err)
	}
}

func TestJoin_InviteExhausted(t *testing.T) {
	service, challengeRepo, _, inviteRepo, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, `{"requiresToken": true}`, `{}`)
	inviteRepo.invites["inv_full"] = &models.InviteToken{
		Token:       "inv_full",
		ChallengeID: "ch-1",
		MaxUses:     intPtr(2),
		UseCount:    2,
	}

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD", InviteToken: strPtr("inv_full")})
	if !errors.Is(err, apperr.ErrInviteExhausted) {
		t.Errorf("Expected ErrInviteExhausted, got %v", err)
	}
}

func TestJoin_InviteForOtherChallenge(t *testing.T) {
	service, challengeRepo, _, inviteRepo, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, `{"requiresToken": true}`, `{}`)
	inviteRepo.invites["inv_other"] = &models.InviteToken{Token: "inv_other", ChallengeID: "ch-2"}

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD", InviteToken: strPtr("inv_other")})
	if apperr.From(err).Code != "INVITE_NOT_FOUND" {
		t.Errorf("Expected INVITE_NOT_FOUND for an invite bound to another challenge, got %v", err)
	}
}

func TestJoin_ValidInviteConsumesUse(t *testing.T) {
	service, challengeRepo, _, inviteRepo, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, `{"requiresToken": true}`, `{}`)
	inviteRepo.invites["inv_ok"] = &models.InviteToken{
		Token:       "inv_ok",
		ChallengeID: "ch-1",
		MaxUses:     intPtr(5),
		UseCount:    1,
	}

	if _, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD", InviteToken: strPtr("inv_ok")}); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if inviteRepo.uses["inv_ok"] != 1 {
		t.Errorf("Expected invite use bumped once, got %d", inviteRepo.uses["inv_ok"])
	}
}

func TestJoin_AlreadyJoined(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, "", `{}`)

	if _, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"}); err != nil {
		t.Fatalf("First Join() failed: %v", err)
	}

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "ab1cd"})
	if !errors.Is(err, apperr.ErrAlreadyJoined) {
		t.Errorf("Expected ErrAlreadyJoined for the same callsign in another casing, got %v", err)
	}
}

func TestJoin_MaxParticipants(t *testing.T) {
	service, challengeRepo, participantRepo, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, `{"maxParticipants": 2}`, `{}`)
	participantRepo.counts["ch-1"] = 2

	_, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"})
	if !errors.Is(err, apperr.ErrMaxParticipants) {
		t.Errorf("Expected ErrMaxParticipants, got %v", err)
	}
}

func TestJoin_RejoinAfterLeaving(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, "", `{}`)

	if _, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"}); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if err := service.Leave(context.Background(), "ch-1", "AB1CD"); err != nil {
		t.Fatalf("Leave() failed: %v", err)
	}

	if _, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"}); err != nil {
		t.Errorf("Expected rejoin after leaving to succeed, got %v", err)
	}
}

func TestLeave_RemovesProgress(t *testing.T) {
	service, challengeRepo, _, _, progressRepo := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, "", `{}`)

	if _, err := service.Join(context.Background(), "ch-1", JoinRequest{Callsign: "AB1CD"}); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if err := service.Leave(context.Background(), "ch-1", "ab1cd"); err != nil {
		t.Fatalf("Leave() failed: %v", err)
	}

	if len(progressRepo.deleted) != 1 || progressRepo.deleted[0] != "ch-1:AB1CD" {
		t.Errorf("Expected the callsign's progress deleted, got %v", progressRepo.deleted)
	}
}

func TestLeave_NotParticipating(t *testing.T) {
	service, challengeRepo, _, _, _ := setupTestService()
	seedChallenge(challengeRepo, "ch-1", true, "", `{}`)

	err := service.Leave(context.Background(), "ch-1", "AB1CD")
	if !errors.Is(err, apperr.ErrNotParticipating) {
		t.Errorf("Expected ErrNotParticipating, got %v", err)
	}
}
