package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/frost"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

func newTestSettingsService(t *testing.T, repo *fakeSettingsRepo) *SettingsService {
	t.Helper()

	stations, err := frost.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	return NewSettingsService(repo, stations, logger.NewNop())
}

func TestGetSettingsDefaults(t *testing.T) {
	svc := newTestSettingsService(t, &fakeSettingsRepo{})
	userID := uuid.New()

	settings, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.UserID != userID {
		t.Errorf("user id = %v, want %v", settings.UserID, userID)
	}
	if settings.Postcode != nil || settings.KNMIStationCode != nil || settings.FrostOffsetDays != 0 {
		t.Errorf("settings = %+v, want zero defaults", settings)
	}
}

func TestUpdateSettingsDerivesStationFromPostcode(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newTestSettingsService(t, repo)

	tests := []struct {
		postcode string
		station  string
	}{
		{"1012AB", "240"},
		{"2511CV", "344"},
		{"3511AD", "260"},
		{"9711LM", "280"},
	}

	for _, tt := range tests {
		t.Run(tt.postcode, func(t *testing.T) {
			postcode := tt.postcode
			settings, err := svc.Update(context.Background(), uuid.New(), ports.UpdateSettingsRequest{Postcode: &postcode})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if settings.KNMIStationCode == nil || *settings.KNMIStationCode != tt.station {
				t.Errorf("station = %v, want %s", settings.KNMIStationCode, tt.station)
			}
		})
	}
}

func TestUpdateSettingsKeepsExplicitStation(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newTestSettingsService(t, repo)

	postcode := "1012AB"
	code := "370"
	settings, err := svc.Update(context.Background(), uuid.New(), ports.UpdateSettingsRequest{
		Postcode:        &postcode,
		KNMIStationCode: &code,
		FrostOffsetDays: -7,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if *settings.KNMIStationCode != "370" {
		t.Errorf("station = %s, want explicit 370", *settings.KNMIStationCode)
	}
	if settings.FrostOffsetDays != -7 {
		t.Errorf("frost offset = %d, want -7", settings.FrostOffsetDays)
	}
	if repo.saved == nil {
		t.Fatal("settings were not persisted")
	}
}

func TestUpdateSettingsUnusablePostcode(t *testing.T) {
	svc := newTestSettingsService(t, &fakeSettingsRepo{})

	postcode := "XX"
	settings, err := svc.Update(context.Background(), uuid.New(), ports.UpdateSettingsRequest{Postcode: &postcode})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	// Unusable postcodes resolve to the De Bilt reference station.
	if settings.KNMIStationCode == nil || *settings.KNMIStationCode != "260" {
		t.Errorf("station = %v, want reference 260", settings.KNMIStationCode)
	}
}
