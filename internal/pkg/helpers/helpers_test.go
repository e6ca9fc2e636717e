package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestDisplayNameFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"bass-guitar.svg", "Bass Guitar"},
		{"lead_VOCALS.png", "Lead Vocals"},
		{"drums.PNG", "Drums"},
		{"icons/electric-guitar_2.webp", "Electric Guitar 2"},
		{"keys--and__synth.jpg", "Keys And Synth"},
		{"éclair-horn.svg", "Éclair Horn"},
	}
	for _, tt := range tests {
		if got := DisplayNameFromFilename(tt.in); got != tt.want {
			t.Errorf("DisplayNameFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsIconFile(t *testing.T) {
	for _, name := range []string{"a.svg", "b.JPEG", "c.gif"} {
		if !IsIconFile(name) {
			t.Errorf("%s should be an icon", name)
		}
	}
	for _, name := range []string{"README.md", "noext", ".DS_Store"} {
		if IsIconFile(name) {
			t.Errorf("%s should not be an icon", name)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"(555) 000-1111", "+15550001111", true},
		{"+44 20 7946 0958", "+442079460958", true},
		{"+1 555 000 1111", "+15550001111", true},
		{"555-0111", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in, "1")
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizePhone(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatSessionWhen(t *testing.T) {
	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	got := FormatSessionWhen(date, "18:30", "21:00")
	if got != "Monday, June 2 from 18:30 to 21:00" {
		t.Errorf("got %q", got)
	}
}

func TestClockMinutes(t *testing.T) {
	m, err := ClockMinutes("18:30")
	if err != nil || m != 18*60+30 {
		t.Errorf("ClockMinutes = %d, %v", m, err)
	}
	if _, err := ClockMinutes("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
}

func TestParseLimitParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		want  int
	}{
		{"", DefaultPageSize},
		{"?limit=10", 10},
		{"?limit=0", DefaultPageSize},
		{"?limit=abc", DefaultPageSize},
		{"?limit=5000", MaxPageSize},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/messages"+tt.query, nil)
		if got := ParseLimitParam(c); got != tt.want {
			t.Errorf("ParseLimitParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
