package models

import (
	"testing"
	"time"
)

func TestAgreementValidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(30 * 24 * time.Hour)

	cases := []struct {
		name      string
		agreement Agreement
		at        time.Time
		want      bool
	}{
		{
			name:      "inside window",
			agreement: Agreement{Start: now.Add(-time.Hour), End: &end},
			at:        now,
			want:      true,
		},
		{
			name:      "before start",
			agreement: Agreement{Start: now.Add(time.Hour), End: &end},
			at:        now,
			want:      false,
		},
		{
			name:      "after end",
			agreement: Agreement{Start: now.Add(-48 * time.Hour), End: &end},
			at:        end.Add(time.Minute),
			want:      false,
		},
		{
			name:      "open ended",
			agreement: Agreement{Start: now.Add(-time.Hour)},
			at:        now.Add(10 * 365 * 24 * time.Hour),
			want:      true,
		},
		{
			name:      "hidden",
			agreement: Agreement{Start: now.Add(-time.Hour), End: &end, Hidden: true},
			at:        now,
			want:      false,
		},
		{
			name:      "exactly at start",
			agreement: Agreement{Start: now, End: &end},
			at:        now,
			want:      true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.agreement.ValidAt(c.at); got != c.want {
				t.Errorf("ValidAt() = %v, want %v", got, c.want)
			}
		})
	}
}
