package state

import (
	"testing"

	"shotscraper/internal/config"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	cfg := config.Default()
	cfg.General.DataRoot = t.TempDir()
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestShotsRoundTrip(t *testing.T) {
	db := openTemp(t)
	row, err := db.RecordShot(ShotRow{URL: "https://example.com/", Filename: "example-com.png", Dir: "/shots", CreatedAt: 100})
	if err != nil {
		t.Fatal(err)
	}
	if row.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := db.RecordShot(ShotRow{URL: "https://example.com/", Filename: "example-com.1.png", Dir: "/shots", CreatedAt: 200}); err != nil {
		t.Fatal(err)
	}
	ok, err := db.ShotExists("/shots", "example-com.png")
	if err != nil || !ok {
		t.Fatalf("ShotExists=%v err=%v", ok, err)
	}
	if ok, _ := db.ShotExists("/other", "example-com.png"); ok {
		t.Fatalf("exists should be scoped by dir")
	}
	rows, err := db.ListShots(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Filename != "example-com.1.png" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows, _ := db.ListShots(1); len(rows) != 1 {
		t.Fatalf("limit not applied")
	}
	if _, err := db.RecordShot(ShotRow{URL: "x", Filename: "example-com.png", Dir: "/shots"}); err == nil {
		t.Fatalf("expected unique constraint error")
	}
}

func TestExistsProbe(t *testing.T) {
	db := openTemp(t)
	if _, err := db.RecordShot(ShotRow{URL: "u", Filename: "a.png", Dir: "d"}); err != nil {
		t.Fatal(err)
	}
	p := db.ExistsProbe("d")
	if !p("a.png") || p("b.png") {
		t.Fatalf("probe mismatch")
	}
}

func TestScriptsUpsert(t *testing.T) {
	db := openTemp(t)
	r := ScriptRow{Path: "simonw/file", URL: "https://raw.githubusercontent.com/simonw/shot-scraper-scripts/main/file.js", SHA256: "abc", Size: 10, FetchedAt: 1}
	if err := db.RecordScript(r); err != nil {
		t.Fatal(err)
	}
	r.FetchedAt = 2
	if err := db.RecordScript(r); err != nil {
		t.Fatal(err)
	}
	rows, err := db.ListScripts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].FetchedAt != 2 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
