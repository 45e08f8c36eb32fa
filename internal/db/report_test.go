package db

import (
	"testing"
	"time"
)

func TestReportEditable(t *testing.T) {
	cases := map[string]bool{
		StatusDraft:           true,
		StatusNeedsCorrection: true,
		StatusSubmitted:       false,
		StatusApproved:        false,
		StatusRejected:        false,
	}
	for status, want := range cases {
		r := Report{Status: status}
		if got := r.Editable(); got != want {
			t.Errorf("Editable() in %s = %v, want %v", status, got, want)
		}
	}
}

func TestReportTerminal(t *testing.T) {
	cases := map[string]bool{
		StatusApproved:        true,
		StatusRejected:        true,
		StatusDraft:           false,
		StatusSubmitted:       false,
		StatusNeedsCorrection: false,
	}
	for status, want := range cases {
		r := Report{Status: status}
		if got := r.Terminal(); got != want {
			t.Errorf("Terminal() in %s = %v, want %v", status, got, want)
		}
	}
}

func TestReportWeekStart(t *testing.T) {
	r := Report{WeekYear: 2024, WeekNumber: 1}
	if got := r.WeekStart(); !got.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("week 1 must start on Jan 1, got %v", got)
	}

	r = Report{WeekYear: 2024, WeekNumber: 3}
	if got := r.WeekStart(); !got.Equal(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local)) {
		t.Errorf("week 3 must start on Jan 15, got %v", got)
	}
}

func TestDayHoursTotal(t *testing.T) {
	cases := []struct {
		hours, minutes int
		want           float64
	}{
		{8, 0, 8},
		{7, 30, 7.5},
		{0, 45, 0.75},
		{0, 0, 0},
	}
	for _, c := range cases {
		d := DayHours{Hours: c.hours, Minutes: c.minutes}
		if got := d.Total(); got != c.want {
			t.Errorf("Total() of %d:%02d = %v, want %v", c.hours, c.minutes, got, c.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	u := User{FullName: "Max Mustermann", FirstName: "M", LastName: "M"}
	if got := u.DisplayName(); got != "Max Mustermann" {
		t.Errorf("full name must win: %q", got)
	}

	u = User{FirstName: "Anna", LastName: "Schmidt"}
	if got := u.DisplayName(); got != "Anna Schmidt" {
		t.Errorf("expected first/last fallback, got %q", got)
	}
}

func TestUserIsAusbilder(t *testing.T) {
	if !(&User{Role: RoleAusbilder}).IsAusbilder() {
		t.Error("ausbilder role not recognized")
	}
	if (&User{Role: RoleAzubi}).IsAusbilder() {
		t.Error("azubi must not pass the trainer check")
	}
}
