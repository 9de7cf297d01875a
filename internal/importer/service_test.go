package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/mwijanarko1/rijal/internal/hadith"
	"github.com/mwijanarko1/rijal/internal/matching"
	"github.com/mwijanarko1/rijal/internal/narrator"
	"github.com/mwijanarko1/rijal/internal/testutil"
)

type recordingHub struct {
	events []string
}

func (r *recordingHub) Broadcast(msgType string, payload any) error {
	r.events = append(r.events, msgType)
	return nil
}

func newTestImporter(t *testing.T) (*Service, *narrator.Service, *recordingHub) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)

	matcher := matching.NewMatcher(matching.DefaultPolicy())
	narrators := narrator.NewService(tdb.Conn, matcher, tdb.Logger)
	hadiths := hadith.NewService(tdb.Conn, narrators, tdb.Logger)
	hub := &recordingHub{}
	return NewService(hadiths, narrators, nil, hub, tdb.Logger), narrators, hub
}

func TestImporter_ImportNarrators(t *testing.T) {
	service, narrators, hub := newTestImporter(t)
	ctx := context.Background()

	dump := `{
		"narrators": [
			{
				"primaryArabicName": "مالك بن أنس",
				"primaryEnglishName": "Malik ibn Anas",
				"alternateArabicNames": ["الإمام مالك"],
				"opinions": [{"scholar": "ابن حجر", "opinion": "ثقة"}]
			},
			{
				"primaryArabicName": "نافع مولى ابن عمر"
			}
		]
	}`

	imported, err := service.ImportNarrators(ctx, strings.NewReader(dump))
	if err != nil {
		t.Fatalf("ImportNarrators() error = %v", err)
	}
	if imported != 2 {
		t.Errorf("imported = %d, want 2", imported)
	}

	all, err := narrators.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("registry size = %d, want 2", len(all))
	}

	var malik *narrator.Narrator
	for _, n := range all {
		if n.PrimaryEnglishName == "Malik ibn Anas" {
			malik = n
		}
	}
	if malik == nil {
		t.Fatal("Malik not found in registry")
	}
	if len(malik.AlternateNames) != 1 {
		t.Errorf("alternate names = %d, want 1", len(malik.AlternateNames))
	}

	opinions, err := narrators.ListOpinions(ctx, malik.ID)
	if err != nil {
		t.Fatalf("ListOpinions() error = %v", err)
	}
	if len(opinions) != 1 {
		t.Errorf("opinions = %d, want 1", len(opinions))
	}

	if len(hub.events) == 0 {
		t.Error("no progress events broadcast")
	}
}

func TestImporter_ImportNarratorsSkipsInvalid(t *testing.T) {
	service, narrators, _ := newTestImporter(t)
	ctx := context.Background()

	dump := `{"narrators": [{"biography": "nameless"}, {"primaryArabicName": "شعبة"}]}`

	imported, err := service.ImportNarrators(ctx, strings.NewReader(dump))
	if err != nil {
		t.Fatalf("ImportNarrators() error = %v", err)
	}
	if imported != 1 {
		t.Errorf("imported = %d, want 1", imported)
	}

	all, err := narrators.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("registry size = %d, want 1", len(all))
	}
}

func TestImporter_ImportNarratorsBadJSON(t *testing.T) {
	service, _, _ := newTestImporter(t)

	if _, err := service.ImportNarrators(context.Background(), strings.NewReader("{not json")); err == nil {
		t.Fatal("ImportNarrators() with bad JSON returned nil error")
	}
}

func TestImporter_SingleFlight(t *testing.T) {
	service, _, _ := newTestImporter(t)

	if !service.begin() {
		t.Fatal("begin() failed on idle importer")
	}
	defer service.end()

	if _, err := service.ImportNarrators(context.Background(), strings.NewReader("{}")); err != ErrImportRunning {
		t.Errorf("ImportNarrators() while running error = %v, want ErrImportRunning", err)
	}
}
