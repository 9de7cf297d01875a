package narrator

import (
	"context"
	"testing"

	"github.com/mwijanarko1/rijal/internal/grading"
	"github.com/mwijanarko1/rijal/internal/matching"
	"github.com/mwijanarko1/rijal/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)
	matcher := matching.NewMatcher(matching.DefaultPolicy())
	return NewService(tdb.Conn, matcher, tdb.Logger), tdb
}

func TestNarratorService_CreateAndGet(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{
		PrimaryArabicName:  "مالك بن أنس",
		PrimaryEnglishName: "Malik ibn Anas",
		Kunya:              "أبو عبد الله",
		TaqribRank:         "ثقة",
		Generation:         "7",
		Residence:          "المدينة",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create() ID is empty")
	}

	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PrimaryArabicName != "مالك بن أنس" {
		t.Errorf("PrimaryArabicName = %q, want %q", got.PrimaryArabicName, "مالك بن أنس")
	}
	if got.PrimaryEnglishName != "Malik ibn Anas" {
		t.Errorf("PrimaryEnglishName = %q, want %q", got.PrimaryEnglishName, "Malik ibn Anas")
	}
}

func TestNarratorService_CreateRequiresAName(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), CreateInput{Biography: "unnamed"})
	if err != ErrInvalidNarrator {
		t.Errorf("Create() error = %v, want ErrInvalidNarrator", err)
	}
}

func TestNarratorService_GetNotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Get(context.Background(), "nonexistent")
	if err != ErrNarratorNotFound {
		t.Errorf("Get() error = %v, want ErrNarratorNotFound", err)
	}
}

func TestNarratorService_Update(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{PrimaryArabicName: "نافع"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	residence := "المدينة"
	updated, err := service.Update(ctx, created.ID, UpdateInput{Residence: &residence})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Residence != residence {
		t.Errorf("Residence = %q, want %q", updated.Residence, residence)
	}
	if updated.PrimaryArabicName != "نافع" {
		t.Errorf("PrimaryArabicName = %q, want unchanged %q", updated.PrimaryArabicName, "نافع")
	}
}

func TestNarratorService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{PrimaryArabicName: "شعبة"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := service.Get(ctx, created.ID); err != ErrNarratorNotFound {
		t.Errorf("Get() after delete error = %v, want ErrNarratorNotFound", err)
	}
	if err := service.Delete(ctx, created.ID); err != ErrNarratorNotFound {
		t.Errorf("Delete() twice error = %v, want ErrNarratorNotFound", err)
	}
}

func TestNarratorService_AlternateNames(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{PrimaryArabicName: "سفيان الثوري"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	v, err := service.AddName(ctx, created.ID, "سفيان بن سعيد", "ar")
	if err != nil {
		t.Fatalf("AddName() error = %v", err)
	}
	if v.ID == 0 {
		t.Error("AddName() ID = 0, want non-zero")
	}

	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.AlternateNames) != 1 {
		t.Fatalf("AlternateNames length = %d, want 1", len(got.AlternateNames))
	}
	if got.AlternateNames[0].Name != "سفيان بن سعيد" {
		t.Errorf("AlternateNames[0].Name = %q", got.AlternateNames[0].Name)
	}

	if err := service.DeleteName(ctx, created.ID, v.ID); err != nil {
		t.Fatalf("DeleteName() error = %v", err)
	}
	got, err = service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.AlternateNames) != 0 {
		t.Errorf("AlternateNames length after delete = %d, want 0", len(got.AlternateNames))
	}
}

func TestNarratorService_Opinions(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{PrimaryArabicName: "عكرمة"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	o, err := service.AddOpinion(ctx, created.ID, "ابن حجر", "ثقة ثبت")
	if err != nil {
		t.Fatalf("AddOpinion() error = %v", err)
	}
	if o.Reputation != grading.ReputationTrustworthy {
		t.Errorf("Reputation = %q, want %q", o.Reputation, grading.ReputationTrustworthy)
	}

	opinions, err := service.ListOpinions(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListOpinions() error = %v", err)
	}
	if len(opinions) != 1 {
		t.Fatalf("ListOpinions() length = %d, want 1", len(opinions))
	}
	if opinions[0].Scholar != "ابن حجر" {
		t.Errorf("Scholar = %q", opinions[0].Scholar)
	}
}

func TestNarratorService_MatchResolvesExactName(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	target, err := service.Create(ctx, CreateInput{
		PrimaryArabicName:  "محمد بن إسماعيل البخاري",
		PrimaryEnglishName: "Muhammad ibn Ismail al-Bukhari",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Create(ctx, CreateInput{PrimaryArabicName: "مسلم بن الحجاج"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	candidates, err := service.Match(ctx, MatchRequest{ArabicName: "محمد بن اسماعيل البخاري"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("Match() returned no candidates")
	}
	if candidates[0].NarratorID != target.ID {
		t.Errorf("top candidate = %s, want %s", candidates[0].NarratorID, target.ID)
	}
	if candidates[0].Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", candidates[0].Confidence)
	}
}

func TestNarratorService_MatchArabicInEnglishField(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	target, err := service.Create(ctx, CreateInput{PrimaryArabicName: "أنس بن مالك"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Clients sometimes submit Arabic text through the English field.
	candidates, err := service.Match(ctx, MatchRequest{EnglishName: "انس بن مالك"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("Match() returned no candidates")
	}
	if candidates[0].NarratorID != target.ID {
		t.Errorf("top candidate = %s, want %s", candidates[0].NarratorID, target.ID)
	}
}

func TestNarratorService_MatchEmptyRequest(t *testing.T) {
	service, _ := newTestService(t)

	candidates, err := service.Match(context.Background(), MatchRequest{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Match() returned %d candidates, want 0", len(candidates))
	}
}

func TestNarratorService_SearchRanksAndFilters(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	exact, err := service.Create(ctx, CreateInput{
		PrimaryArabicName: "عبد الله بن عمر",
		TaqribRank:        "صحابي",
		Residence:         "المدينة",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Create(ctx, CreateInput{
		PrimaryArabicName: "عبد الله بن عباس",
		TaqribRank:        "صحابي",
		Residence:         "مكة",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resp, err := service.Search(ctx, SearchOptions{Query: "عبد الله بن عمر"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.TotalCount < 1 {
		t.Fatal("Search() returned no results")
	}
	if resp.Items[0].Narrator.ID != exact.ID {
		t.Errorf("top result = %s, want exact match %s", resp.Items[0].Narrator.ID, exact.ID)
	}

	// Residence filter narrows to the Medinan narrator.
	resp, err = service.Search(ctx, SearchOptions{
		Query:   "عبد الله",
		Filters: matching.SearchFilters{Residences: []string{"المدينة"}},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.TotalCount != 1 {
		t.Fatalf("Search() TotalCount = %d, want 1", resp.TotalCount)
	}
	if resp.Items[0].Narrator.ID != exact.ID {
		t.Errorf("filtered result = %s, want %s", resp.Items[0].Narrator.ID, exact.ID)
	}
}

func TestNarratorService_SearchPagination(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	names := []string{"محمد بن سيرين", "محمد بن المنكدر", "محمد بن واسع"}
	for _, name := range names {
		if _, err := service.Create(ctx, CreateInput{PrimaryArabicName: name}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	resp, err := service.Search(ctx, SearchOptions{Query: "محمد", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", resp.TotalCount)
	}
	if len(resp.Items) != 2 {
		t.Errorf("page 1 length = %d, want 2", len(resp.Items))
	}

	resp, err = service.Search(ctx, SearchOptions{Query: "محمد", Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Items) != 1 {
		t.Errorf("page 2 length = %d, want 1", len(resp.Items))
	}
}
