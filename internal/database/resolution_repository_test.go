package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"vidgate/models"
)

// setupTestRepo creates a test database and resolution repository.
func setupTestRepo(t *testing.T) *ResolutionRepository {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewResolutionRepository(db.Connection())
}

func record(videoID, servedBy string, at time.Time) models.ResolutionRecord {
	return models.ResolutionRecord{
		ID:         uuid.NewString(),
		Reference:  "https://youtu.be/" + videoID,
		VideoID:    videoID,
		Title:      "title " + videoID,
		ServedBy:   servedBy,
		Attempts:   1,
		DurationMS: 120,
		ResolvedAt: at,
	}
}

func TestInsertAndRecent(t *testing.T) {
	repo := setupTestRepo(t)

	now := time.Now().UTC().Truncate(time.Second)
	older := record("older1", "https://a.example", now.Add(-time.Hour))
	newer := record("newer1", "https://b.example", now)

	if err := repo.Insert(older); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.Insert(newer); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	recent, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].VideoID != "newer1" {
		t.Errorf("expected newest record first, got %q", recent[0].VideoID)
	}
	if recent[1].Title != "title older1" {
		t.Errorf("unexpected title %q", recent[1].Title)
	}
}

func TestRecent_HonorsLimit(t *testing.T) {
	repo := setupTestRepo(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		if err := repo.Insert(record("vid", "https://a.example", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	recent, err := repo.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("expected 3 records, got %d", len(recent))
	}
}

func TestCountByInstance(t *testing.T) {
	repo := setupTestRepo(t)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		if err := repo.Insert(record("v", "https://a.example", now)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := repo.Insert(record("v", "https://b.example", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	counts, err := repo.CountByInstance()
	if err != nil {
		t.Fatalf("CountByInstance failed: %v", err)
	}
	if counts["https://a.example"] != 3 {
		t.Errorf("expected 3 for a.example, got %d", counts["https://a.example"])
	}
	if counts["https://b.example"] != 1 {
		t.Errorf("expected 1 for b.example, got %d", counts["https://b.example"])
	}
}

func TestNewDB_RequiresPath(t *testing.T) {
	if _, err := NewDB(Config{}); err == nil {
		t.Fatal("expected error for empty database path")
	}
}
