package menu

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9\-_]+)`)
	gidPattern     = regexp.MustCompile(`[#&]gid=([0-9]+)`)
)

// ExtractSheetID pulls the spreadsheet id out of a share URL.
func ExtractSheetID(url string) string {
	m := sheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractGID pulls the tab gid out of a share URL, defaulting to the
// first tab.
func ExtractGID(url string) string {
	m := gidPattern.FindStringSubmatch(url)
	if m == nil {
		return "0"
	}
	return m[1]
}

// CSVSource fetches menu rows from a public spreadsheet's CSV export
// endpoint.
type CSVSource struct {
	SheetURL string
	Client   *http.Client
}

func NewCSVSource(sheetURL string) *CSVSource {
	return &CSVSource{
		SheetURL: sheetURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Read downloads and parses the sheet as CSV. The sheet name argument is
// ignored: the export URL already pins a tab via gid.
func (s *CSVSource) Read(ctx context.Context, _ string) ([][]string, error) {
	id := ExtractSheetID(s.SheetURL)
	if id == "" {
		return nil, fmt.Errorf("invalid sheet url %q", s.SheetURL)
	}
	exportURL := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", id, ExtractGID(s.SheetURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet csv: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet csv: status %d", resp.StatusCode)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}

	// Drop fully empty trailing rows the export sometimes appends.
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
