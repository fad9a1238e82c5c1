package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate date-only: %v", err)
	}
	if day.Year() != 2026 || day.Month() != time.March || day.Day() != 15 {
		t.Errorf("unexpected date %v", day)
	}

	stamp, err := ParseDate("2026-03-15T08:30:00Z")
	if err != nil {
		t.Fatalf("ParseDate RFC3339: %v", err)
	}
	if stamp.Hour() != 8 || stamp.Minute() != 30 {
		t.Errorf("unexpected timestamp %v", stamp)
	}

	zero, err := ParseDate("")
	if err != nil || !zero.IsZero() {
		t.Errorf("empty value should parse to zero time, got %v, %v", zero, err)
	}

	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/", 50, 0},
		{"explicit", "/?limit=20&offset=40", 20, 40},
		{"clamped", "/?limit=9999", 200, 0},
		{"page shorthand", "/?limit=25&page=3", 25, 50},
		{"offset wins over page", "/?limit=10&page=5&offset=7", 10, 7},
		{"negative ignored", "/?limit=-1&offset=-5", 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := ParsePagination(httptest.NewRequest("GET", tc.url, nil), 50, 200)
			if page.Limit != tc.wantLimit || page.Offset != tc.wantOffset {
				t.Errorf("got limit=%d offset=%d, want limit=%d offset=%d",
					page.Limit, page.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
