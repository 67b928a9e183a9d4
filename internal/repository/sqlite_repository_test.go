package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sojaprj/internal/db"
	"sojaprj/internal/model"
)

var day = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *SQLitePriceRepository {
	t.Helper()
	conn, err := db.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := EnsureSchema(context.Background(), conn, DriverSQLite); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return &SQLitePriceRepository{DB: conn, SourceTag: "AgRural"}
}

func rec(region, market, purchase string, vars ...string) model.PriceRecord {
	r := model.PriceRecord{
		Date:     day,
		Region:   region,
		Market:   market,
		Purchase: decimal.RequireFromString(purchase),
	}
	fields := []*decimal.NullDecimal{&r.VarDay, &r.VarWeek, &r.VarMonth}
	for i, v := range vars {
		if v != "" {
			*fields[i] = decimal.NewNullDecimal(decimal.RequireFromString(v))
		}
	}
	return r
}

func batch() []model.PriceRecord {
	return []model.PriceRecord{
		rec("SP", "Campinas", "120.50", "-0.5", "1.2", ""),
		rec("SP", "Sorocaba", "1234.56", "-0.5"),
		rec("MT", "Sorriso", "110", "0", "2.5", "3"),
	}
}

func TestSQLiteMaxDateEmpty(t *testing.T) {
	repo := newTestRepo(t)
	_, ok, err := repo.MaxDate(context.Background())
	if err != nil {
		t.Fatalf("MaxDate: %v", err)
	}
	if ok {
		t.Error("empty store should report no max date")
	}
}

func TestSQLiteMaxDateMissingTable(t *testing.T) {
	conn, err := db.NewSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	repo := &SQLitePriceRepository{DB: conn}
	if _, ok, err := repo.MaxDate(context.Background()); err != nil || ok {
		t.Errorf("MaxDate on missing table = ok:%v err:%v", ok, err)
	}
}

func TestSQLiteApplyDiffIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	counts, err := repo.ApplyDiff(ctx, batch())
	if err != nil {
		t.Fatalf("first ApplyDiff: %v", err)
	}
	if counts != (model.Counts{Inserted: 3}) {
		t.Errorf("first run counts = %+v", counts)
	}

	counts, err = repo.ApplyDiff(ctx, batch())
	if err != nil {
		t.Fatalf("second ApplyDiff: %v", err)
	}
	if counts != (model.Counts{Unchanged: 3}) {
		t.Errorf("second run counts = %+v, want zero changes", counts)
	}

	max, ok, err := repo.MaxDate(ctx)
	if err != nil || !ok || !max.Equal(day) {
		t.Errorf("MaxDate = %v ok=%v err=%v", max, ok, err)
	}

	stored, err := repo.ListByDate(ctx, day)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("stored %d rows, want 3", len(stored))
	}
	campinas := stored[1] // ordenado por uf, praca: MT/Sorriso, SP/Campinas, SP/Sorocaba
	if campinas.Market != "Campinas" || !campinas.Purchase.Equal(decimal.RequireFromString("120.5")) {
		t.Errorf("campinas = %+v", campinas)
	}
	if campinas.VarMonth.Valid {
		t.Error("absent var_mes must be stored as NULL")
	}
	if campinas.Source != "AgRural" {
		t.Errorf("fonte = %q", campinas.Source)
	}
	if campinas.LoadTS.IsZero() {
		t.Error("load_ts should be set by the store")
	}
}

func TestSQLiteApplyDiffUpdatesOnlyChangedRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.ApplyDiff(ctx, batch()); err != nil {
		t.Fatal(err)
	}

	next := batch()
	next[0].Purchase = decimal.RequireFromString("121")
	next[1].VarDay = decimal.NullDecimal{}
	next = append(next, rec("GO", "Rio Verde", "118"))

	counts, err := repo.ApplyDiff(ctx, next)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	want := model.Counts{Inserted: 1, Updated: 2, Unchanged: 1}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	stored, err := repo.ListByDate(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if got := Plan(stored, next); got != (model.Counts{Unchanged: 4}) {
		t.Errorf("store does not reflect the merged batch: plan = %+v", got)
	}
}

func TestSQLiteApplyDiffRoundsToStorageScale(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	b := []model.PriceRecord{rec("PR", "Cascavel", "125.004", "0.333")}
	if _, err := repo.ApplyDiff(ctx, b); err != nil {
		t.Fatal(err)
	}
	counts, err := repo.ApplyDiff(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Changed() != 0 {
		t.Errorf("re-applying unrounded values changed %d rows", counts.Changed())
	}
}

func TestSQLiteApplyDiffIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	dup := append(batch(), rec("SP", "Campinas", "99"))
	if _, err := repo.ApplyDiff(ctx, dup); err == nil {
		t.Fatal("duplicate key in batch should fail staging")
	}

	stored, err := repo.ListByDate(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 0 {
		t.Errorf("failed merge left %d rows behind", len(stored))
	}

	// a conexão continua utilizável depois do rollback
	if counts, err := repo.ApplyDiff(ctx, batch()); err != nil || counts.Inserted != 3 {
		t.Errorf("ApplyDiff after rollback = %+v, %v", counts, err)
	}
}

func TestSQLiteFallbackSourceTag(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r := rec("BA", "LEM", "115")
	r.FallbackDated = true
	if _, err := repo.ApplyDiff(ctx, []model.PriceRecord{r}); err != nil {
		t.Fatal(err)
	}
	stored, err := repo.ListByDate(ctx, day)
	if err != nil || len(stored) != 1 {
		t.Fatalf("ListByDate = %v, %v", stored, err)
	}
	if stored[0].Source != "AgRural (data estimada)" {
		t.Errorf("fonte = %q", stored[0].Source)
	}
}
