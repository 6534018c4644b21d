package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Final Year Review!": "final-year-review",
		"  ":                 "report",
		"Level 100 / Sem 2":  "level-100-sem-2",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}
