package sheetstore

import (
	"context"
	"strconv"
	"testing"

	"tableserve/internal/common/logger"
)

func testRotator(t *testing.T, maxRows int) (*Rotator, *Memory) {
	t.Helper()
	mem := NewMemory()
	return NewRotator(mem, "Orders", maxRows, OrderHeader, logger.New("test")), mem
}

func row(i int) []string {
	return []string{"01/01/2024, 10:00:00 AM", "ORD-" + strconv.Itoa(i), "5", "A", "9876543210", "", "[]", "100.00", ""}
}

func TestAppendCreatesFirstSheetWithHeader(t *testing.T) {
	r, mem := testRotator(t, 10)
	res, err := r.AppendRow(context.Background(), row(1))
	if err != nil {
		t.Fatal(err)
	}
	if res.SheetName != "Orders" || res.RowNumber != 2 || res.NewSheetCreated {
		t.Fatalf("unexpected append result: %+v", res)
	}
	rows, err := mem.Read(context.Background(), "Orders")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][1] != "Order ID" {
		t.Fatalf("sheet should hold header plus one row: %+v", rows)
	}
}

func TestRotationAtCapacity(t *testing.T) {
	const max = 10
	r, _ := testRotator(t, max)
	ctx := context.Background()

	// Fill the first sheet to its last physical row.
	for i := 1; i < max; i++ {
		res, err := r.AppendRow(ctx, row(i))
		if err != nil {
			t.Fatal(err)
		}
		if res.NewSheetCreated {
			t.Fatalf("rotated too early at data row %d", i)
		}
		if res.SheetName != "Orders" {
			t.Fatalf("row %d landed on %s", i, res.SheetName)
		}
	}

	// The next write must rotate and land in the new sheet at its first
	// data row.
	res, err := r.AppendRow(ctx, row(max))
	if err != nil {
		t.Fatal(err)
	}
	if !res.NewSheetCreated {
		t.Fatal("expected rotation at capacity")
	}
	if res.SheetName != "Orders_2" {
		t.Errorf("new sheet name = %q, want Orders_2", res.SheetName)
	}
	if res.RowNumber != 2 {
		t.Errorf("row number in new sheet = %d, want 2 (first data row)", res.RowNumber)
	}
	if res.PreviousSheetRows != max-1 {
		t.Errorf("previousSheetRows = %d, want %d", res.PreviousSheetRows, max-1)
	}

	// Subsequent writes keep using the new sheet.
	res, err = r.AppendRow(ctx, row(max+1))
	if err != nil {
		t.Fatal(err)
	}
	if res.SheetName != "Orders_2" || res.NewSheetCreated {
		t.Errorf("follow-up write misplaced: %+v", res)
	}
}

func TestRotationNumbersKeepClimbing(t *testing.T) {
	const max = 3
	r, _ := testRotator(t, max)
	ctx := context.Background()

	var lastSheet string
	for i := 0; i < 10; i++ {
		res, err := r.AppendRow(ctx, row(i))
		if err != nil {
			t.Fatal(err)
		}
		lastSheet = res.SheetName
	}
	if lastSheet != "Orders_5" {
		t.Errorf("after 10 rows at capacity %d, current sheet = %q, want Orders_5", max, lastSheet)
	}
}

func TestStats(t *testing.T) {
	const max = 5
	r, mem := testRotator(t, max)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := r.AppendRow(ctx, row(i)); err != nil {
			t.Fatal(err)
		}
	}
	// An unrelated sheet sharing the prefix must not appear in stats.
	if err := mem.Create(ctx, "Orders Backup", []string{"x"}); err != nil {
		t.Fatal(err)
	}

	stats, err := r.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d sheets in stats, want 2: %+v", len(stats), stats)
	}
	byName := map[string]int{}
	for i, s := range stats {
		byName[s.Name] = i
	}
	first := stats[byName["Orders"]]
	if first.RowCount != max-1 || !first.IsFull {
		t.Errorf("first sheet stats wrong: %+v", first)
	}
	second := stats[byName["Orders_2"]]
	if second.RowCount != 2 || second.IsFull {
		t.Errorf("second sheet stats wrong: %+v", second)
	}
	if want := float64(max-1) / float64(max); first.PercentFull != want {
		t.Errorf("percentFull = %v, want %v", first.PercentFull, want)
	}
}

func TestSheetsOrderedByRotationNumber(t *testing.T) {
	r, mem := testRotator(t, 10)
	ctx := context.Background()

	// Created out of order on purpose; lexicographic listing would put
	// Orders_10 before Orders_2.
	for _, name := range []string{"Orders_10", "Orders", "Orders_2", "Orders_3"} {
		if err := mem.Create(ctx, name, OrderHeader); err != nil {
			t.Fatal(err)
		}
	}

	names, err := r.Sheets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Orders", "Orders_2", "Orders_3", "Orders_10"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sheet order = %v, want %v", names, want)
		}
	}

	stats, err := r.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats[len(stats)-1].Name != "Orders_10" {
		t.Errorf("stats should end with Orders_10: %+v", stats)
	}
}

func TestMemoryAppendToMissingSheet(t *testing.T) {
	mem := NewMemory()
	if _, err := mem.Append(context.Background(), "nope", row(1)); err == nil {
		t.Fatal("expected ErrSheetNotFound")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	r, _ := testRotator(t, 10)
	tests := []struct {
		name string
		want bool
	}{
		{"Orders", true},
		{"Orders_2", true},
		{"Orders_10", true},
		{"Orders_x", false},
		{"OrdersArchive", false},
		{"Menu", false},
	}
	for _, tt := range tests {
		if got := r.inNamespace(tt.name); got != tt.want {
			t.Errorf("inNamespace(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
