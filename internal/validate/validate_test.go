package validate

import "testing"

func TestPhone(t *testing.T) {
	good := []string{"01012345678", "010-1234-5678", " 0101234567 ", "0212345678"}
	for _, s := range good {
		if _, ok := Phone(s); !ok {
			t.Errorf("Phone(%q) rejected", s)
		}
	}
	bad := []string{"", "abc", "123", "+8210123456789", "010 1234 5678", "-1012345678"}
	for _, s := range bad {
		if _, ok := Phone(s); ok {
			t.Errorf("Phone(%q) accepted", s)
		}
	}
}

func TestMoney(t *testing.T) {
	good := []string{"0", "8500", "3.50", "10000.0001"}
	for _, s := range good {
		if _, ok := Money(s); !ok {
			t.Errorf("Money(%q) rejected", s)
		}
	}
	bad := []string{"", "-5", "1e3", "3.", ".5", "3.00000", "12,000"}
	for _, s := range bad {
		if _, ok := Money(s); ok {
			t.Errorf("Money(%q) accepted", s)
		}
	}
}

func TestID(t *testing.T) {
	if _, ok := ID("plain-bagel"); !ok {
		t.Error("ID(plain-bagel) rejected")
	}
	if _, ok := ID("a b"); ok {
		t.Error("ID with space accepted")
	}
	if _, ok := ID(""); ok {
		t.Error("empty ID accepted")
	}
}

func TestPoints(t *testing.T) {
	if n, ok := Points(""); !ok || n != 0 {
		t.Error("empty points must mean zero")
	}
	if n, ok := Points("150"); !ok || n != 150 {
		t.Error("Points(150) rejected")
	}
	if _, ok := Points("-1"); ok {
		t.Error("negative points accepted")
	}
}

func TestPassword(t *testing.T) {
	if !Password("Passw0rd!") {
		t.Error("valid password rejected")
	}
	for _, s := range []string{"short1!", "alllowercase1!", "ALLUPPER1!", "NoDigits!!", "NoSymbol11", "WayTooLongPassword123!!!"} {
		if Password(s) {
			t.Errorf("Password(%q) accepted", s)
		}
	}
}
