package axiom

import "testing"

func TestGroupsAllButLastSegment(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"plain_name", nil},
		{"group_a#basename", []string{"group_a"}},
		{"group_a#group_b#basename", []string{"group_a", "group_b"}},
		{"", nil},
	}
	for _, c := range cases {
		got := Groups(c.name)
		if len(got) != len(c.want) {
			t.Fatalf("Groups(%q) = %v, want %v", c.name, got, c.want)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Fatalf("Groups(%q)[%d] = %q, want %q", c.name, i, got[i], c.want[i])
			}
		}
	}
}

func TestGenerateNameIsDeterministic(t *testing.T) {
	if GenerateName(0) != "__unnamed_0__" {
		t.Fatalf("got %q", GenerateName(0))
	}
	if GenerateName(7) != "__unnamed_7__" {
		t.Fatalf("got %q", GenerateName(7))
	}
}
