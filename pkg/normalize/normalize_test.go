package normalize

import "testing"

func TestTitleKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Filtru Ulei", "filtru ulei"},
		{"  filtru   ULEI  ", "filtru ulei"},
		{"Plăcuțe Frână FAȚĂ", "placute frana fata"},
		{"Ölfilter", "olfilter"},
		{"", ""},
		{"   ", ""},
		{"BOSCH-0986", "bosch-0986"},
	}

	for _, c := range cases {
		if got := TitleKey(c.in); got != c.want {
			t.Errorf("TitleKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleKey_DiacriticVariantsCollide(t *testing.T) {
	// The whole point of the key: a part re-entered without diacritics or
	// with different casing must hit the same cost history.
	variants := []string{
		"Plăcuțe frână",
		"placute frana",
		"PLACUTE  FRANA",
		"Plăcuțe  FRÂNĂ",
	}

	want := TitleKey(variants[0])
	for _, v := range variants[1:] {
		if got := TitleKey(v); got != want {
			t.Errorf("TitleKey(%q) = %q, want %q", v, got, want)
		}
	}
}
