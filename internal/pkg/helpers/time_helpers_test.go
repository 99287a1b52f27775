package helpers

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("90m", time.Hour); got != 90*time.Minute {
		t.Errorf("ParseDuration(90m) = %v", got)
	}
	if got := ParseDuration("", time.Hour); got != time.Hour {
		t.Errorf("ParseDuration(empty) = %v, want fallback", got)
	}
	if got := ParseDuration("soon", time.Hour); got != time.Hour {
		t.Errorf("ParseDuration(invalid) = %v, want fallback", got)
	}
}
