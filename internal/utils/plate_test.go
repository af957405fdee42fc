package utils

import "testing"

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12가 3456", "12가3456"},
		{"  12가3456  ", "12가3456"},
		{"서울 12 아 3456", "서울12아3456"},
		{"abc 123", "ABC123"},
	}
	for _, c := range cases {
		if got := NormalizePlate(c.in); got != c.want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidPlate(t *testing.T) {
	valid := []string{"12가3456", "123나4567", "68다1234", "서울12아3456", "12가 3456"}
	for _, p := range valid {
		if !ValidPlate(p) {
			t.Errorf("ValidPlate(%q) = false, want true", p)
		}
	}
	invalid := []string{"", "1234", "가나다라", "12343456", "12가345", "seoul12가3456"}
	for _, p := range invalid {
		if ValidPlate(p) {
			t.Errorf("ValidPlate(%q) = true, want false", p)
		}
	}
}
