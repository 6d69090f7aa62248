package task

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("10-01-2024")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if got := d.String(); got != "10-01-2024" {
		t.Fatalf("date = %q, want 10-01-2024", got)
	}

	for _, bad := range []string{"", "2024-01-10", "10/01/2024", "31-02-2024", "soon"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) accepted invalid input", bad)
		}
	}
}

func TestDateYAMLRoundTrip(t *testing.T) {
	original, err := ParseDate("05-03-2025")
	if err != nil {
		t.Fatal(err)
	}
	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Date
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(original) {
		t.Fatalf("round trip produced %s, want %s", decoded, original)
	}
}

func TestOverdue(t *testing.T) {
	today := DateOf(time.Date(2024, 6, 15, 13, 30, 0, 0, time.UTC))
	past, _ := ParseDate("14-06-2024")
	same, _ := ParseDate("15-06-2024")
	future, _ := ParseDate("16-06-2024")

	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"past and open", Task{Due: past}, true},
		{"past but completed", Task{Due: past, Completed: true}, false},
		{"due today", Task{Due: same}, false},
		{"future", Task{Due: future}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.task.Overdue(today); got != tc.want {
				t.Fatalf("Overdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if role, err := ParseRole(" Admin "); err != nil || role != RoleAdmin {
		t.Fatalf("ParseRole(Admin) = %v, %v", role, err)
	}
	if role, err := ParseRole("member"); err != nil || role != RoleMember {
		t.Fatalf("ParseRole(member) = %v, %v", role, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatalf("ParseRole(root) accepted unknown role")
	}
}
