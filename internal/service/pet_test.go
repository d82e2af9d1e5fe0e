package service

import (
	"context"
	"strings"
	"testing"

	"tamapet-data-api/internal/model"
	"tamapet-data-api/pkg/apierror"
)

// fakePetRepo records the arguments it receives so tests can assert
// what the service passed through.
type fakePetRepo struct {
	createdName string
	lastUpdate  model.PetUpdate
	staleHours  int
	listLimit   int
}

func (f *fakePetRepo) GetByUser(ctx context.Context, userID int64) (*model.Pet, error) {
	return &model.Pet{UserID: userID}, nil
}

func (f *fakePetRepo) Create(ctx context.Context, userID int64, name string) (*model.Pet, error) {
	f.createdName = name
	return &model.Pet{UserID: userID, Name: name}, nil
}

func (f *fakePetRepo) Update(ctx context.Context, userID int64, upd model.PetUpdate) (bool, error) {
	f.lastUpdate = upd
	return true, nil
}

func (f *fakePetRepo) AdjustItemQuantity(ctx context.Context, userID int64, itemName string, delta int64) error {
	return nil
}

func (f *fakePetRepo) ListStale(ctx context.Context, thresholdHours int) ([]model.PetSummary, error) {
	f.staleHours = thresholdHours
	return nil, nil
}

func (f *fakePetRepo) RecordSession(ctx context.Context, userID int64, gameType, result string, expGained, coinsGained int64) error {
	return nil
}

func (f *fakePetRepo) ListSessions(ctx context.Context, userID int64, limit int) ([]model.GameSession, error) {
	f.listLimit = limit
	return nil, nil
}

func badRequest(t *testing.T, err error) {
	t.Helper()
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != 400 {
		t.Fatalf("err = %v, want a 400 apierror", err)
	}
}

func TestCreateDefaultsName(t *testing.T) {
	repo := &fakePetRepo{}
	svc := NewPetService(repo)

	if _, err := svc.Create(context.Background(), 1, "   "); err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.createdName != DefaultPetName {
		t.Errorf("name = %q, want %q", repo.createdName, DefaultPetName)
	}
}

func TestCreateRejectsLongName(t *testing.T) {
	svc := NewPetService(&fakePetRepo{})

	_, err := svc.Create(context.Background(), 1, strings.Repeat("a", maxPetNameLen+1))
	badRequest(t, err)
}

func TestCreateRejectsInvalidUser(t *testing.T) {
	svc := NewPetService(&fakePetRepo{})

	_, err := svc.Create(context.Background(), 0, "pet")
	badRequest(t, err)
}

func TestUpdateClampsCareStats(t *testing.T) {
	repo := &fakePetRepo{}
	svc := NewPetService(repo)

	high := 150
	low := -20
	if _, err := svc.Update(context.Background(), 1, model.PetUpdate{
		Hunger: &high,
		Energy: &low,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if repo.lastUpdate.Hunger == nil || *repo.lastUpdate.Hunger != 100 {
		t.Errorf("hunger not clamped to 100: %v", repo.lastUpdate.Hunger)
	}
	if repo.lastUpdate.Energy == nil || *repo.lastUpdate.Energy != 0 {
		t.Errorf("energy not clamped to 0: %v", repo.lastUpdate.Energy)
	}
}

func TestUpdateRejectsNegativeCounters(t *testing.T) {
	svc := NewPetService(&fakePetRepo{})

	coins := int64(-5)
	_, err := svc.Update(context.Background(), 1, model.PetUpdate{Coins: &coins})
	badRequest(t, err)

	level := 0
	_, err = svc.Update(context.Background(), 1, model.PetUpdate{Level: &level})
	badRequest(t, err)
}

func TestUpdateEmptyShortCircuits(t *testing.T) {
	repo := &fakePetRepo{}
	svc := NewPetService(repo)

	updated, err := svc.Update(context.Background(), 1, model.PetUpdate{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if updated {
		t.Error("empty update should report no change")
	}
}

func TestAdjustItemRequiresName(t *testing.T) {
	svc := NewPetService(&fakePetRepo{})

	badRequest(t, svc.AdjustItem(context.Background(), 1, "  ", 1))
}

func TestStaleCandidatesBoundsHours(t *testing.T) {
	repo := &fakePetRepo{}
	svc := NewPetService(repo)
	ctx := context.Background()

	if _, err := svc.StaleCandidates(ctx, 0); err != nil {
		t.Fatalf("stale default: %v", err)
	}
	if repo.staleHours != DefaultStaleHours {
		t.Errorf("hours = %d, want default %d", repo.staleHours, DefaultStaleHours)
	}

	if _, err := svc.StaleCandidates(ctx, 100000); err != nil {
		t.Fatalf("stale capped: %v", err)
	}
	if repo.staleHours != maxStaleHours {
		t.Errorf("hours = %d, want cap %d", repo.staleHours, maxStaleHours)
	}
}

func TestRecordGameValidation(t *testing.T) {
	svc := NewPetService(&fakePetRepo{})
	ctx := context.Background()

	badRequest(t, svc.RecordGame(ctx, 1, "", "win", 1, 1))
	badRequest(t, svc.RecordGame(ctx, 1, "guess", "", 1, 1))
	badRequest(t, svc.RecordGame(ctx, 1, "guess", "win", -1, 1))

	if err := svc.RecordGame(ctx, 1, "guess", "win", 10, 5); err != nil {
		t.Fatalf("valid record: %v", err)
	}
}

func TestRecentGamesBoundsLimit(t *testing.T) {
	repo := &fakePetRepo{}
	svc := NewPetService(repo)
	ctx := context.Background()

	if _, err := svc.RecentGames(ctx, 1, 0); err != nil {
		t.Fatalf("default limit: %v", err)
	}
	if repo.listLimit != defaultSessionLimit {
		t.Errorf("limit = %d, want default %d", repo.listLimit, defaultSessionLimit)
	}

	if _, err := svc.RecentGames(ctx, 1, 1000); err != nil {
		t.Fatalf("capped limit: %v", err)
	}
	if repo.listLimit != maxSessionLimit {
		t.Errorf("limit = %d, want cap %d", repo.listLimit, maxSessionLimit)
	}
}
