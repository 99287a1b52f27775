package services

import (
	"errors"
	"testing"
	"time"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

func TestResolveWindowDefaults(t *testing.T) {
	before := time.Now()
	start, end, err := resolveWindow(nil, nil, false)
	after := time.Now()
	if err != nil {
		t.Fatalf("resolveWindow() error: %v", err)
	}

	if start.Before(before) || start.After(after) {
		t.Errorf("default start %v not in [%v, %v]", start, before, after)
	}
	if end == nil {
		t.Fatal("default end is nil, want start plus the default validity window")
	}
	if got := end.Sub(start); got != models.DefaultValidityDays*24*time.Hour {
		t.Errorf("default window = %v, want %d days", got, models.DefaultValidityDays)
	}
}

func TestResolveWindowExplicit(t *testing.T) {
	reqStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	reqEnd := reqStart.Add(10 * 24 * time.Hour)

	start, end, err := resolveWindow(&reqStart, &reqEnd, false)
	if err != nil {
		t.Fatalf("resolveWindow() error: %v", err)
	}
	if !start.Equal(reqStart) {
		t.Errorf("start = %v, want %v", start, reqStart)
	}
	if end == nil || !end.Equal(reqEnd) {
		t.Errorf("end = %v, want %v", end, reqEnd)
	}
}

func TestResolveWindowOpenEnded(t *testing.T) {
	reqStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, end, err := resolveWindow(&reqStart, nil, true)
	if err != nil {
		t.Fatalf("resolveWindow() error: %v", err)
	}
	if end != nil {
		t.Errorf("end = %v, want nil for an open-ended window", end)
	}
}

func TestResolveWindowRejectsInvertedWindow(t *testing.T) {
	reqStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	reqEnd := reqStart.Add(-time.Hour)

	_, _, err := resolveWindow(&reqStart, &reqEnd, false)
	if err == nil {
		t.Fatal("resolveWindow() accepted an end before start")
	}

	var custom *apperrors.CustomError
	if !errors.As(err, &custom) || custom.Field != "end" {
		t.Errorf("resolveWindow() error = %v, want validation error on field end", err)
	}
}

func TestValidateRedirectURL(t *testing.T) {
	valid := []string{
		"https://library.example.edu/maps",
		"https://example.edu",
	}
	for _, u := range valid {
		if err := validateRedirectURL(u); err != nil {
			t.Errorf("validateRedirectURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"http://example.edu",
		"/relative/path",
		"ftp://example.edu/files",
		"https://",
	}
	for _, u := range invalid {
		if err := validateRedirectURL(u); err == nil {
			t.Errorf("validateRedirectURL(%q) = nil, want error", u)
		}
	}
}

func TestValidateRichText(t *testing.T) {
	body, err := validateRichText("body", `<p>I agree to the <em>terms</em></p>`)
	if err != nil {
		t.Fatalf("validateRichText() error: %v", err)
	}
	if body != `<p>I agree to the <em>terms</em></p>` {
		t.Errorf("validateRichText() changed valid content: %q", body)
	}

	_, err = validateRichText("body", `<p onclick="steal()">terms</p>`)
	var custom *apperrors.CustomError
	if !errors.As(err, &custom) {
		t.Fatalf("validateRichText() = %v, want CustomError", err)
	}
	if !errors.Is(err, apperrors.ErrInvalidHTML) {
		t.Errorf("validateRichText() error does not wrap ErrInvalidHTML: %v", err)
	}
	if custom.Field != "body" {
		t.Errorf("Field = %q, want body", custom.Field)
	}
}
