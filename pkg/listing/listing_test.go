package listing

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFromQuery(t *testing.T) {
	cases := []struct {
		raw   string
		set   bool
		value string
	}{
		{"", false, ""},
		{"all", false, ""},
		{"heat", true, "heat"},
		{"ALL", true, "ALL"}, // the wildcard is case-sensitive
	}
	for _, tc := range cases {
		f := FromQuery(tc.raw)
		if f.IsSet() != tc.set {
			t.Errorf("FromQuery(%q).IsSet() = %v, want %v", tc.raw, f.IsSet(), tc.set)
		}
		if f.Value() != tc.value {
			t.Errorf("FromQuery(%q).Value() = %q, want %q", tc.raw, f.Value(), tc.value)
		}
	}
}

func TestPageFromQueryClamps(t *testing.T) {
	cases := []struct {
		start, limit   int
		offset, capped int
	}{
		{0, 0, 0, DefaultLimit},
		{-5, -1, 0, DefaultLimit},
		{20, 50, 20, 50},
		{0, 1000, 0, MaxLimit},
	}
	for _, tc := range cases {
		p := PageFromQuery(tc.start, tc.limit)
		if p.Offset != tc.offset || p.Limit != tc.capped {
			t.Errorf("PageFromQuery(%d, %d) = %+v, want offset %d limit %d",
				tc.start, tc.limit, p, tc.offset, tc.capped)
		}
	}
}

func TestSortFromQuery(t *testing.T) {
	if s := SortFromQuery("title", "desc"); !s.Desc {
		t.Error("order desc not recognized")
	}
	if s := SortFromQuery("title", "asc"); s.Desc {
		t.Error("order asc sorted descending")
	}
	if s := SortFromQuery("title", "anything"); s.Desc {
		t.Error("unknown order sorted descending, want ascending")
	}
}

type row struct {
	ID    int `gorm:"primaryKey"`
	Name  string
	Group string
}

func scopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rows := []row{
		{ID: 1, Name: "alpha", Group: "x"},
		{ID: 2, Name: "beta", Group: "x"},
		{ID: 3, Name: "alphabet", Group: "y"},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed rows: %v", err)
	}
	return db
}

func TestSearchScope(t *testing.T) {
	db := scopeTestDB(t)

	var got []row
	if err := db.Scopes(SearchScope(Match("alpha"), "name")).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("substring search matched %d rows, want 2", len(got))
	}

	got = nil
	if err := db.Scopes(SearchScope(All(), "name")).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("unset search filtered rows: got %d, want 3", len(got))
	}
}

func TestWhereScope(t *testing.T) {
	db := scopeTestDB(t)

	var got []row
	if err := db.Scopes(WhereScope(Match("y"), "`group`")).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Name != "alphabet" {
		t.Errorf("where scope matched %+v, want only alphabet", got)
	}
}

func TestOrderScopeFallsBack(t *testing.T) {
	db := scopeTestDB(t)
	allowed := map[string]string{"name": "name"}

	var got []row
	if err := db.Scopes(OrderScope(Sort{Field: "name", Desc: true}, allowed, "id")).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if got[0].Name != "beta" {
		t.Errorf("first row %q, want beta (name DESC)", got[0].Name)
	}

	got = nil
	if err := db.Scopes(OrderScope(Sort{Field: "nope"}, allowed, "id DESC")).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if got[0].ID != 3 {
		t.Errorf("first row id %d, want 3 (fallback id DESC)", got[0].ID)
	}
}

func TestPageScope(t *testing.T) {
	db := scopeTestDB(t)

	var got []row
	if err := db.Scopes(PageScope(Page{Offset: 1, Limit: 1})).Order("id").Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("page = %+v, want only row 2", got)
	}
}

func TestConsecutivePagesPartitionTheSet(t *testing.T) {
	db := scopeTestDB(t)
	extra := []row{
		{ID: 4, Name: "gamma", Group: "y"},
		{ID: 5, Name: "delta", Group: "x"},
	}
	if err := db.Create(&extra).Error; err != nil {
		t.Fatalf("seed rows: %v", err)
	}

	// Under a stable sort, offset 0..N and N..2N must cover the set
	// exactly once: no row repeated, no row skipped.
	const limit = 2
	seen := map[int]int{}
	total := 0
	for offset := 0; ; offset += limit {
		var page []row
		err := db.Scopes(PageScope(Page{Offset: offset, Limit: limit})).Order("id").Find(&page).Error
		if err != nil {
			t.Fatalf("query offset %d: %v", offset, err)
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			seen[r.ID]++
			total++
		}
	}

	if total != 5 {
		t.Errorf("pages returned %d rows in total, want 5", total)
	}
	for id := 1; id <= 5; id++ {
		if seen[id] != 1 {
			t.Errorf("row %d appeared %d times across pages, want exactly once", id, seen[id])
		}
	}
}
