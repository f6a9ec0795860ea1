package form

import "testing"

func TestRequiredValidator(t *testing.T) {
	v := Required("")

	if err := v.Validate(""); err == nil {
		t.Error("Expected error for empty string")
	}
	if err := v.Validate("   "); err == nil {
		t.Error("Expected error for whitespace-only string")
	}
	if err := v.Validate("hello"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestMinLengthValidator(t *testing.T) {
	v := MinLength(3, "")

	if err := v.Validate("ab"); err == nil {
		t.Error("Expected error for 'ab' (len 2)")
	}
	if err := v.Validate("abc"); err != nil {
		t.Errorf("Expected no error for 'abc', got: %v", err)
	}
	if err := v.Validate("héé"); err != nil {
		t.Errorf("Expected characters, not bytes, to be counted, got: %v", err)
	}
	// An astral character is two UTF-16 code units.
	if err := v.Validate("a😀"); err != nil {
		t.Errorf("Expected 'a😀' to count as 3, got: %v", err)
	}

	// An empty value is too short.
	if err := v.Validate(""); err == nil {
		t.Error("Expected error for empty string")
	}
}

func TestMaxLengthValidator(t *testing.T) {
	v := MaxLength(5, "too long")

	if err := v.Validate("abcde"); err != nil {
		t.Errorf("Expected no error at limit, got: %v", err)
	}
	err := v.Validate("abcdef")
	if err == nil {
		t.Fatal("Expected error for 'abcdef' (len 6)")
	}
	if err.Error() != "too long" {
		t.Errorf("message = %q, want %q", err.Error(), "too long")
	}
	if err := MaxLength(2, "").Validate("a😀"); err == nil {
		t.Error("Expected 'a😀' (3 code units) to exceed 2")
	}
}

func TestPatternValidator(t *testing.T) {
	v := Pattern(`^[a-zA-Z0-9_]+$`, "")

	if err := v.Validate("dev_flow42"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if err := v.Validate("dev flow"); err == nil {
		t.Error("Expected error for value with a space")
	}
	if err := v.Validate(""); err != nil {
		t.Errorf("Expected empty string to be skipped, got: %v", err)
	}
}

func TestContainsValidator(t *testing.T) {
	v := Contains(`[A-Z]`, "needs upper")

	if err := v.Validate("abcD"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if err := v.Validate("abcd"); err == nil {
		t.Error("Expected error without an uppercase letter")
	}
	if err := v.Validate(""); err == nil {
		t.Error("Expected error for empty string")
	}
}

func TestEmailValidator(t *testing.T) {
	v := Email("")

	validEmails := []string{
		"test@example.com",
		"user.name@domain.co.uk",
		"user+tag@example.org",
		"o'brien@example.ie",
		"A_B-C@Sub-Domain.Example.COM",
	}
	for _, email := range validEmails {
		if err := v.Validate(email); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", email, err)
		}
	}

	invalidEmails := []string{
		"not-an-email",
		"@example.com",
		"user@",
		"user@example",
		".user@example.com",
		"user..name@example.com",
		"user.@example.com",
		"user@-example.com",
		"user@example.c",
		"user@exa mple.com",
		"a@b@example.com",
		"user@example.123",
	}
	for _, email := range invalidEmails {
		if err := v.Validate(email); err == nil {
			t.Errorf("Expected %q to be invalid", email)
		}
	}

	if err := v.Validate(""); err != nil {
		t.Errorf("Expected empty string to be skipped, got: %v", err)
	}
}

func TestCustomValidator(t *testing.T) {
	v := Custom(func(s string) bool { return s != "admin" }, "reserved")

	if err := v.Validate("alice"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	err := v.Validate("admin")
	if err == nil {
		t.Fatal("Expected error for reserved name")
	}
	ve, ok := err.(ValidationError)
	if !ok || ve.Message != "reserved" {
		t.Errorf("err = %#v", err)
	}
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		v    Validator
		in   string
		want string
	}{
		{Required(""), "", "This field is required"},
		{MinLength(6, ""), "abc", "Must be at least 6 characters"},
		{MaxLength(2, ""), "abc", "Must be at most 2 characters"},
		{Pattern(`^\d+$`, ""), "x", "Invalid format"},
		{Email(""), "x", "Invalid email address"},
	}
	for _, tt := range tests {
		err := tt.v.Validate(tt.in)
		if err == nil || err.Error() != tt.want {
			t.Errorf("Validate(%q) = %v, want %q", tt.in, err, tt.want)
		}
	}
}
