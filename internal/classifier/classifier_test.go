package classifier

import "testing"

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `[{"id":1,"category":"Rent"}]`, `[{"id":1,"category":"Rent"}]`},
		{"json fence", "```json\n[{\"id\":1}]\n```", `[{"id":1}]`},
		{"bare fence", "```\n[]\n```", `[]`},
		{"surrounding whitespace", "  \n[]\n  ", `[]`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMarkdownFences(tt.in); got != tt.want {
				t.Errorf("stripMarkdownFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
