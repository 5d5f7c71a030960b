//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"flex_reviews/internal/domain"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=flexrev",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/flexrev?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_ReviewsRoundTripAndApproval(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	seed := []domain.Review{
		{
			ID:          "hostaway-7453",
			PropertyID:  "prop-1",
			ListingName: "29 Shoreditch Heights",
			Channel:     "hostaway",
			Type:        "guest-to-host",
			Status:      "published",
			Rating:      pfloat(4.5),
			Categories: []domain.CategoryRating{
				{Category: "cleanliness", Rating: 5},
				{Category: "communication", Rating: 4.5},
			},
			Text:        pstr("Wonderful stay, spotless flat."),
			SubmittedAt: "2024-01-15T10:00:00Z",
			GuestName:   pstr("Shane Finkelstein"),
		},
		{
			ID:          "google-abc",
			PropertyID:  "prop-2",
			ListingName: "Canary Wharf Loft",
			Channel:     "google",
			Type:        "guest-to-host",
			Status:      "published",
			Rating:      pfloat(3.0),
			SubmittedAt: "2024-02-01T09:00:00Z",
		},
	}
	if err := repo.UpsertReviews(ctx, seed); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	all, err := repo.ListReviews(ctx, domain.ReviewsQuery{})
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(all))
	}

	byChannel, err := repo.ListReviews(ctx, domain.ReviewsQuery{Channel: "hostaway"})
	if err != nil {
		t.Fatalf("ListReviews channel: %v", err)
	}
	if len(byChannel) != 1 || byChannel[0].ID != "hostaway-7453" {
		t.Fatalf("unexpected channel filter result: %+v", byChannel)
	}
	if len(byChannel[0].Categories) != 2 || byChannel[0].Categories[0].Category != "cleanliness" {
		t.Fatalf("categories did not survive: %+v", byChannel[0].Categories)
	}
	if byChannel[0].GuestName == nil || *byChannel[0].GuestName != "Shane Finkelstein" {
		t.Fatalf("guest name did not survive: %+v", byChannel[0])
	}

	// Toggle approval twice.
	approved, err := repo.ToggleApproval(ctx, "hostaway-7453")
	if err != nil || !approved {
		t.Fatalf("first toggle: approved=%v err=%v", approved, err)
	}
	approvals, err := repo.ListApprovals(ctx)
	if err != nil {
		t.Fatalf("ListApprovals: %v", err)
	}
	if !approvals["hostaway-7453"] || approvals["google-abc"] {
		t.Fatalf("unexpected approvals: %+v", approvals)
	}
	if approved, _ = repo.ToggleApproval(ctx, "hostaway-7453"); approved {
		t.Fatalf("expected second toggle to unapprove")
	}

	if _, err := repo.ToggleApproval(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ReingestPreservesApproval(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	rv := domain.Review{
		ID:          "hostaway-1",
		PropertyID:  "prop-1",
		ListingName: "Old Name",
		Channel:     "hostaway",
		Type:        "guest-to-host",
		Status:      "published",
		Rating:      pfloat(4.0),
		SubmittedAt: "2024-01-01T00:00:00Z",
	}
	if err := repo.UpsertReviews(ctx, []domain.Review{rv}); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}
	if _, err := repo.ToggleApproval(ctx, "hostaway-1"); err != nil {
		t.Fatalf("ToggleApproval: %v", err)
	}

	// Re-ingest with a renamed listing; approval must survive.
	rv.ListingName = "New Name"
	if err := repo.UpsertReviews(ctx, []domain.Review{rv}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	out, err := repo.ListReviews(ctx, domain.ReviewsQuery{Channel: "hostaway"})
	if err != nil || len(out) != 1 {
		t.Fatalf("ListReviews: %v (%d)", err, len(out))
	}
	if out[0].ListingName != "New Name" {
		t.Fatalf("expected updated name, got %s", out[0].ListingName)
	}
	if !out[0].ManagerApproved {
		t.Fatalf("approval lost on re-ingest")
	}
}

func TestRepo_PropertyRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	p := domain.Property{
		ID:           "prop-1",
		Name:         "29 Shoreditch Heights",
		Location:     "Shoreditch, London, UK",
		Address:      "29 Shoreditch High St",
		Price:        180,
		Currency:     "£",
		Amenities:    []string{"WiFi", "Kitchen"},
		Description:  []string{"A bright two-bed flat."},
		CheckInTime:  pstr("3:00 PM"),
		CheckOutTime: pstr("11:00 AM"),
		MinStay:      2,
		PropertyType: "Apartment",
		Bedrooms:     2,
		Bathrooms:    1,
		Guests:       4,
	}
	if err := repo.UpsertProperty(ctx, p); err != nil {
		t.Fatalf("UpsertProperty: %v", err)
	}

	got, err := repo.GetProperty(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if got.Name != p.Name || got.Currency != "£" || len(got.Amenities) != 2 {
		t.Fatalf("unexpected property: %+v", got)
	}
	if got.CheckInTime == nil || *got.CheckInTime != "3:00 PM" {
		t.Fatalf("check-in time did not survive: %+v", got)
	}

	if _, err := repo.GetProperty(ctx, "nope"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
