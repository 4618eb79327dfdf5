package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tapilabs/leadsim/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return repo
}

func TestGetCredentials_EmptyStore(t *testing.T) {
	repo := newTestStore(t)

	creds, err := repo.GetCredentials(context.Background())
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if creds != nil {
		t.Errorf("Expected nil credentials in a fresh store, got %+v", creds)
	}
}

func TestSaveAndGetCredentials(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	saved := &domain.Credentials{
		AccessToken:  "tok1",
		CompanyID:    "ACME",
		CampaignCode: "SPRING",
		IssuedAt:     issued,
	}
	if err := repo.SaveCredentials(ctx, saved); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}

	got, err := repo.GetCredentials(ctx)
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected stored credentials, got nil")
	}
	if got.AccessToken != "tok1" || got.CompanyID != "ACME" || got.CampaignCode != "SPRING" {
		t.Errorf("Unexpected credentials: %+v", got)
	}
	if !got.IssuedAt.Equal(issued) {
		t.Errorf("Expected issued_at %v, got %v", issued, got.IssuedAt)
	}
}

func TestSaveCredentials_ReplacesPrevious(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	first := &domain.Credentials{AccessToken: "tok1", CompanyID: "ACME", CampaignCode: "SPRING"}
	if err := repo.SaveCredentials(ctx, first); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}
	second := &domain.Credentials{AccessToken: "tok2", CompanyID: "ACME", CampaignCode: "FALL"}
	if err := repo.SaveCredentials(ctx, second); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}

	got, err := repo.GetCredentials(ctx)
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if got.AccessToken != "tok2" || got.CampaignCode != "FALL" {
		t.Errorf("Expected the later credentials, got %+v", got)
	}
}

func TestSaveCredentials_ZeroIssuedAtDefaultsToNow(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := repo.SaveCredentials(ctx, &domain.Credentials{
		AccessToken: "tok1", CompanyID: "ACME", CampaignCode: "SPRING",
	}); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}

	got, err := repo.GetCredentials(ctx)
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if got.IssuedAt.Before(before) {
		t.Errorf("Expected issued_at to default to now, got %v", got.IssuedAt)
	}
}

func TestDeleteCredentials(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.SaveCredentials(ctx, &domain.Credentials{
		AccessToken: "tok1", CompanyID: "ACME", CampaignCode: "SPRING",
	}); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}
	if err := repo.DeleteCredentials(ctx); err != nil {
		t.Fatalf("DeleteCredentials failed: %v", err)
	}

	got, err := repo.GetCredentials(ctx)
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil credentials after delete, got %+v", got)
	}

	// Deleting again is a no-op.
	if err := repo.DeleteCredentials(ctx); err != nil {
		t.Errorf("DeleteCredentials on an empty store failed: %v", err)
	}
}

func TestPing(t *testing.T) {
	repo := newTestStore(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
