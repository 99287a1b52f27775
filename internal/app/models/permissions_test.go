package models

import "testing"

func TestIsKnownPermission(t *testing.T) {
	for _, p := range AllPermissions {
		if !IsKnownPermission(p) {
			t.Errorf("IsKnownPermission(%q) = false", p)
		}
	}

	unknown := []string{"", "agreements.fly_resource", "view_agreement", "AGREEMENTS.VIEW_AGREEMENT"}
	for _, p := range unknown {
		if IsKnownPermission(p) {
			t.Errorf("IsKnownPermission(%q) = true", p)
		}
	}
}
