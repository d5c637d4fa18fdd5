package policy

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	contactPattern  = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// passwordSpecials is the exact special-character set passwords must draw from.
const passwordSpecials = "@$!%*?&"

// ValidateUsername checks the account username: required, trimmed length
// 3-30, letters/digits/underscores only.
func ValidateUsername(username string) []Violation {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return []Violation{violation("username", "username is required")}
	}
	var out []Violation
	if len(trimmed) < UsernameMinLength || len(trimmed) > UsernameMaxLength {
		out = append(out, violation("username", fmt.Sprintf("username must be between %d and %d characters", UsernameMinLength, UsernameMaxLength)))
	}
	if !usernamePattern.MatchString(trimmed) {
		out = append(out, violation("username", "username may only contain letters, digits, and underscores"))
	}
	return out
}

// ValidateEmail checks the account email address shape.
func ValidateEmail(email string) []Violation {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return []Violation{violation("email", "email is required")}
	}
	if !emailPattern.MatchString(trimmed) {
		return []Violation{violation("email", "email must be a valid email address")}
	}
	return nil
}

// ValidatePassword checks the password composition rules: length 8-128, at
// least one lowercase letter, one uppercase letter, one digit, and one of
// @$!%*?&. Beyond the class requirements only the first character is
// constrained to the allowed alphabet; existing passwords depend on the
// rest of the string staying unchecked.
func ValidatePassword(password string) []Violation {
	if password == "" {
		return []Violation{violation("password", "password is required")}
	}
	var out []Violation
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		out = append(out, violation("password", fmt.Sprintf("password must be between %d and %d characters", PasswordMinLength, PasswordMaxLength)))
	}
	if !containsLower(password) {
		out = append(out, violation("password", "password must contain at least one lowercase letter"))
	}
	if !containsUpper(password) {
		out = append(out, violation("password", "password must contain at least one uppercase letter"))
	}
	if !containsDigit(password) {
		out = append(out, violation("password", "password must contain at least one digit"))
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		out = append(out, violation("password", "password must contain at least one special character ("+passwordSpecials+")"))
	}
	if !isAllowedPasswordByte(password[0]) {
		out = append(out, violation("password", "password must start with a letter, digit, or one of "+passwordSpecials))
	}
	return out
}

// ValidateContactNumber checks an optional phone number: digits, spaces,
// hyphens, parentheses, and an optional leading plus.
func ValidateContactNumber(contact string) []Violation {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return nil
	}
	if !contactPattern.MatchString(trimmed) {
		return []Violation{violation("contactNumber", "contact number may only contain digits, spaces, hyphens, parentheses, and a leading +")}
	}
	return nil
}

// RegistrationInput is the payload validated at account creation.
type RegistrationInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber,omitempty"`
}

// ValidateRegistration concatenates the registration field validators in a
// fixed order: username, email, password, contact number.
func ValidateRegistration(in RegistrationInput) []Violation {
	var out []Violation
	out = append(out, ValidateUsername(in.Username)...)
	out = append(out, ValidateEmail(in.Email)...)
	out = append(out, ValidatePassword(in.Password)...)
	out = append(out, ValidateContactNumber(in.ContactNumber)...)
	return out
}

// LoginInput is the payload validated at login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateLogin checks that credentials are present and the email is well
// formed. Composition rules do not apply here: accounts predating a rule
// change must still be able to sign in.
func ValidateLogin(in LoginInput) []Violation {
	var out []Violation
	out = append(out, ValidateEmail(in.Email)...)
	if in.Password == "" {
		out = append(out, violation("password", "password is required"))
	}
	return out
}

// ProfileInput is the payload validated at profile update.
type ProfileInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber,omitempty"`
}

// ValidateProfileUpdate concatenates the profile field validators in a fixed
// order: username, email, contact number.
func ValidateProfileUpdate(in ProfileInput) []Violation {
	var out []Violation
	out = append(out, ValidateUsername(in.Username)...)
	out = append(out, ValidateEmail(in.Email)...)
	out = append(out, ValidateContactNumber(in.ContactNumber)...)
	return out
}

func containsLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}

func containsUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func isAllowedPasswordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	return strings.IndexByte(passwordSpecials, b) >= 0
}
