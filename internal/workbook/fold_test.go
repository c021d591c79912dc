package workbook

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"İZMİR", "izmir"},
		{"izmir", "izmir"},
		{"ÇAĞRI BÜFE", "cagri bufe"},
		{"Şölen Gıda", "solen gida"},
		{"ILICA", "ilica"},
		{"café", "cafe"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Fold(c.in); got != c.want {
			t.Errorf("Fold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{"İZMİR", "Şölen Gıda", "ÇAĞRI BÜFE No:17", "plain ascii", "ÖĞÜT ŞIİI"}
	for _, in := range inputs {
		once := Fold(in)
		twice := Fold(once)
		if once != twice {
			t.Errorf("Fold not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
