package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	out := Table([]string{"Username", "Role"}, [][]string{
		{"root", "ADMIN"},
		{"ana", "USER"},
	})

	for _, want := range []string{"Username", "Role", "root", "ADMIN", "ana", "USER"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) < 4 {
		t.Errorf("expected border, header and two rows, got %d lines:\n%s", len(lines), out)
	}
}

func TestPalette(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
	}{
		{"Title", Title},
		{"Success", Success},
		{"Failure", Failure},
		{"Warning", Warning},
		{"Help", Help},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render("hello"); !strings.Contains(got, "hello") {
				t.Errorf("%s dropped its text: %q", tt.name, got)
			}
		})
	}

	if !strings.Contains(Active(true), "active") || !strings.Contains(Active(false), "inactive") {
		t.Error("Active should name the state")
	}
}
