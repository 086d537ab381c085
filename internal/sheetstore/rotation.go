package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tableserve/internal/common/logger"
	"tableserve/internal/domain"
)

// OrderHeader is the column layout of every rotation-unit sheet.
var OrderHeader = []string{
	"Timestamp", "Order ID", "Table", "Customer Name", "Mobile", "Email", "Items", "Total", "Placed At ISO",
}

// Rotator resolves the current write target among the base sheet and its
// numbered successors (Orders, Orders_2, Orders_3, ...), creating the next
// one once the current sheet is full. The read-then-create step is not
// transactional; two writers racing at the boundary can both rotate, which
// mirrors the source system's behavior.
type Rotator struct {
	store  Store
	base   string
	max    int // rotation threshold in physical rows, header included
	header []string
	lg     *logger.Logger
}

func NewRotator(store Store, base string, maxRows int, header []string, lg *logger.Logger) *Rotator {
	if maxRows <= 1 {
		maxRows = 10000
	}
	return &Rotator{store: store, base: base, max: maxRows, header: header, lg: lg}
}

// AppendRow writes one order row, rotating first when the current sheet is
// at capacity. The triggering row always lands in the fresh sheet.
func (r *Rotator) AppendRow(ctx context.Context, row []string) (domain.Append, error) {
	name, lastRow, err := r.current(ctx)
	if err != nil {
		return domain.Append{}, err
	}

	var res domain.Append
	if lastRow > 1 && lastRow >= r.max {
		next := r.nextName(name)
		if err := r.store.Create(ctx, next, r.header); err != nil {
			return domain.Append{}, fmt.Errorf("create sheet %s: %w", next, err)
		}
		r.lg.Info("sheet_rotated", map[string]any{
			"previous": name, "previous_rows": lastRow - 1, "new": next,
		})
		res.NewSheetCreated = true
		res.PreviousSheetRows = lastRow - 1
		name = next
	}

	rowNum, err := r.store.Append(ctx, name, row)
	if err != nil {
		return domain.Append{}, err
	}
	res.SheetName = name
	res.RowNumber = rowNum
	return res, nil
}

// Sheets lists the base sheet and every rotation successor, oldest first.
func (r *Rotator) Sheets(ctx context.Context) ([]string, error) {
	names, err := r.store.List(ctx, r.base)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, name := range names {
		if r.inNamespace(name) {
			out = append(out, name)
		}
	}
	r.sortBySuffix(out)
	return out, nil
}

// sortBySuffix orders sheet names by rotation number, so Orders_10 comes
// after Orders_2 rather than before it.
func (r *Rotator) sortBySuffix(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return r.suffixNumber(names[i]) < r.suffixNumber(names[j])
	})
}

// Stats reports occupancy for the base sheet and every rotation successor.
func (r *Rotator) Stats(ctx context.Context) ([]domain.SheetStats, error) {
	names, err := r.store.List(ctx, r.base)
	if err != nil {
		return nil, err
	}
	inNS := names[:0]
	for _, name := range names {
		if r.inNamespace(name) {
			inNS = append(inNS, name)
		}
	}
	r.sortBySuffix(inNS)

	stats := make([]domain.SheetStats, 0, len(inNS))
	for _, name := range inNS {
		last, err := r.store.LastRow(ctx, name)
		if err != nil {
			return nil, err
		}
		dataRows := last - 1
		if dataRows < 0 {
			dataRows = 0
		}
		stats = append(stats, domain.SheetStats{
			Name:        name,
			RowCount:    dataRows,
			PercentFull: float64(dataRows) / float64(r.max),
			IsFull:      last >= r.max,
		})
	}
	return stats, nil
}

// current returns the newest non-full sheet, creating the base sheet on
// first use. When every sheet is full it returns the newest one so the
// caller rotates away from it.
func (r *Rotator) current(ctx context.Context) (string, int, error) {
	names, err := r.store.List(ctx, r.base)
	if err != nil {
		return "", 0, err
	}

	best := ""
	bestNum := -1
	for _, name := range names {
		if !r.inNamespace(name) {
			continue
		}
		if n := r.suffixNumber(name); n > bestNum {
			bestNum, best = n, name
		}
	}
	if best == "" {
		if err := r.store.Create(ctx, r.base, r.header); err != nil {
			return "", 0, fmt.Errorf("create sheet %s: %w", r.base, err)
		}
		return r.base, 1, nil
	}

	last, err := r.store.LastRow(ctx, best)
	if errors.Is(err, ErrSheetNotFound) {
		return best, 1, nil
	}
	if err != nil {
		return "", 0, err
	}
	return best, last, nil
}

// inNamespace accepts the base name and base_N successors, and rejects
// unrelated sheets that merely share the prefix.
func (r *Rotator) inNamespace(name string) bool {
	if name == r.base {
		return true
	}
	rest, ok := strings.CutPrefix(name, r.base+"_")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

// suffixNumber orders sheets: base counts as 1, base_N as N.
func (r *Rotator) suffixNumber(name string) int {
	if name == r.base {
		return 1
	}
	rest, _ := strings.CutPrefix(name, r.base+"_")
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0
	}
	return n
}

func (r *Rotator) nextName(current string) string {
	n := r.suffixNumber(current)
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("%s_%d", r.base, n+1)
}
