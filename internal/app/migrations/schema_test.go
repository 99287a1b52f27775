package migrations

import (
	"os"
	"regexp"
	"strings"
	"testing"
)

// The repositories translate duplicate-key errors into the *AlreadyExists
// sentinels, which only works when the schema actually declares the
// uniqueness. This guards the declarations the services rely on.
func TestInitSchemaDeclaresUniqueness(t *testing.T) {
	ddl, err := os.ReadFile("../../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("reading schema: %v", err)
	}

	tables := map[string]string{}
	for _, chunk := range strings.Split(string(ddl), "CREATE TABLE IF NOT EXISTS ")[1:] {
		name := chunk[:strings.IndexAny(chunk, " (\n")]
		tables[name] = chunk
	}

	cases := []struct {
		table   string
		pattern string
	}{
		{"users", `username\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"resources", `name\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"resources", `slug\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"faculties", `name\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"faculties", `slug\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"departments", `slug\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"departments", `UNIQUE \(name, faculty_id\)`},
		{"agreements", `title\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"agreements", `slug\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"permission_groups", `name\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"permission_groups", `slug\s+VARCHAR\(\d+\) NOT NULL UNIQUE`},
		{"signatures", `UNIQUE \(agreement_id, signatory_id\)`},
		{"license_codes", `UNIQUE \(resource_id, code\)`},
	}
	for _, tc := range cases {
		body, ok := tables[tc.table]
		if !ok {
			t.Errorf("table %s not found in schema", tc.table)
			continue
		}
		if !regexp.MustCompile(tc.pattern).MatchString(body) {
			t.Errorf("table %s: no match for %q", tc.table, tc.pattern)
		}
	}
}
