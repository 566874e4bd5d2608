// Package validation holds the Hub's acceptance rules for new accounts.
//
// Both provisioning paths call into this package; the rules must stay in step
// with what the Hub enforces server-side, including the deliberately lax email
// check. All functions are pure.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/models"
)

const (
	UsernameMinLength = 4
	UsernameMaxLength = 30
	PasswordMinLength = 8
	EmailMinLength    = 5
	PhoneMinLength    = 10
)

var (
	usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	phoneDigits     = regexp.MustCompile(`^\+[0-9]+$`)

	reservedUsernames = map[string]struct{}{
		"admin":     {},
		"moderator": {},
	}
)

// ValidateUsername checks length, leading letter, charset and the reserved
// list, in that order, and reports the first rule that fails.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength {
		return common.NewValidationError(common.FieldUsername, "username must be at least 4 characters")
	}
	if n > UsernameMaxLength {
		return common.NewValidationError(common.FieldUsername, "username must be at most 30 characters")
	}

	first, _ := utf8.DecodeRuneInString(username)
	if !unicode.IsLetter(first) {
		return common.NewValidationError(common.FieldUsername, "username must start with a letter")
	}

	if !usernameCharset.MatchString(username) {
		return common.NewValidationError(common.FieldUsername, "username can only contain letters, numbers, and underscores")
	}

	if _, ok := reservedUsernames[strings.ToLower(username)]; ok {
		return common.NewValidationError(common.FieldUsername, "username is reserved")
	}

	return nil
}

// ValidatePassword only enforces the minimum length; content is not checked.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return common.NewValidationError(common.FieldPassword, "password must be at least 8 characters")
	}
	return nil
}

// ValidateEmail mirrors the Hub's check: an '@' somewhere and at least five
// characters. Do not tighten it without changing the Hub as well.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || utf8.RuneCountInString(email) < EmailMinLength {
		return common.NewValidationError(common.FieldIdentifier, "invalid email format")
	}
	return nil
}

// ValidatePhone accepts E.164 numbers: '+' followed by digits only.
func ValidatePhone(phone string) error {
	if !strings.HasPrefix(phone, "+") {
		return common.NewValidationError(common.FieldIdentifier, "phone number must start with + (E.164 format)")
	}
	if utf8.RuneCountInString(phone) < PhoneMinLength {
		return common.NewValidationError(common.FieldIdentifier, "phone number too short")
	}
	if !phoneDigits.MatchString(phone) {
		return common.NewValidationError(common.FieldIdentifier, "phone number can only contain digits after +")
	}
	return nil
}

// ValidateIdentifier dispatches to the email or phone rules.
func ValidateIdentifier(id models.Identifier) error {
	switch id.Kind {
	case models.IdentifierEmail:
		return ValidateEmail(id.Value)
	case models.IdentifierPhone:
		return ValidatePhone(id.Value)
	default:
		return common.NewValidationError(common.FieldIdentifier, "either an email or a phone number is required")
	}
}

// ValidateRequest runs every check a registration needs: username, password,
// then the identifier. The first failure is returned and nothing else runs.
func ValidateRequest(id models.Identifier, username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	return ValidateIdentifier(id)
}
