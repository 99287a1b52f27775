package services

import (
	"testing"

	"github.com/mellynhq/mellyn/internal/app/models"
)

type recordingEmailService struct {
	sent []int64
}

func (r *recordingEmailService) SendLowCodesWarning(toEmail, resourceName string, remaining int64) error {
	r.sent = append(r.sent, remaining)
	return nil
}

func TestMaybeWarnLowCodes(t *testing.T) {
	resource := &models.Resource{
		Name:              "Campus Map Data",
		Slug:              "campus-map-data",
		LowCodesThreshold: 51,
		LowCodesEmail:     "codes@example.edu",
	}

	cases := []struct {
		name      string
		remaining int64
		sent      bool
	}{
		{"well above threshold", 200, false},
		{"just above threshold", 52, false},
		{"at threshold but not a multiple of ten", 51, false},
		{"below threshold on a multiple of ten", 50, true},
		{"below threshold off the multiple", 49, false},
		{"further down on a multiple", 20, true},
		{"zero remaining", 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := &recordingEmailService{}
			svc := &signatureServiceImpl{emailService: rec}

			svc.maybeWarnLowCodes(resource, c.remaining)

			if got := len(rec.sent) == 1; got != c.sent {
				t.Errorf("warning sent = %v, want %v", got, c.sent)
			}
		})
	}
}

func TestMaybeWarnLowCodesDisabled(t *testing.T) {
	rec := &recordingEmailService{}
	svc := &signatureServiceImpl{emailService: rec}

	// No recipient configured.
	svc.maybeWarnLowCodes(&models.Resource{LowCodesThreshold: 51}, 10)
	// No resource attached at all.
	svc.maybeWarnLowCodes(nil, 10)

	if len(rec.sent) != 0 {
		t.Errorf("warnings sent = %d, want 0", len(rec.sent))
	}
}
