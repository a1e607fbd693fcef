package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, digits, spaces and common punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// E164-like phone: optional +, digits 7-15 length, separators stripped first
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// A single path segment: no separators, no dot-dot
	safeKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("rating", Rating)
	_ = v.RegisterValidation("safe_key", SafeKey)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone accepts spaces, dashes and parentheses between digits
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsPhone(val)
}

// IsPhone is the plain-string form of the valid_phone tag
func IsPhone(val string) bool {
	stripped := make([]rune, 0, len(val))
	for _, r := range val {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		stripped = append(stripped, r)
	}
	return phoneRegex.MatchString(string(stripped))
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// Rating accepts 1..5. Zero is left to "required".
func Rating(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	if n == 0 {
		return true
	}
	return n >= 1 && n <= 5
}

// SafeKey validates an identifier that ends up in a storage key or upload path
func SafeKey(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsSafeKey(val)
}

// IsSafeKey is the plain-string form of the safe_key tag
func IsSafeKey(val string) bool {
	return safeKeyRegex.MatchString(val)
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}
