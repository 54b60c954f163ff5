// Package contact validates and submits the site's contact form.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field length limits, in characters.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 100
	MaxMessageLength = 5000
)

// User-facing validation messages.
const (
	MsgNameRequired    = "Please enter your name."
	MsgEmailRequired   = "Please enter your email address."
	MsgMessageRequired = "Please enter your message."
	MsgEmailInvalid    = "Please enter a valid email address."
	MsgPhoneInvalid    = "Please enter a valid phone number."
	MsgHTMLNotAllowed  = "HTML code is not allowed in form fields."
	MsgUnsafeContent   = "Potentially unsafe content detected. Please remove code snippets."
	MsgNameTooLong     = "Name is too long. Maximum 100 characters allowed."
	MsgEmailTooLong    = "Email is too long. Maximum 100 characters allowed."
	MsgMessageTooLong  = "Message is too long. Maximum 5000 characters allowed."
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,10}[-\s.]?[0-9]{1,10}$`)
	htmlRegex  = regexp.MustCompile(`<[^>]*>`)

	scriptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
		regexp.MustCompile(`(?i)script`),
		regexp.MustCompile(`(?i)eval\(`),
		regexp.MustCompile(`(?i)alert\(`),
		regexp.MustCompile(`(?i)document\.`),
		regexp.MustCompile(`(?i)window\.`),
		regexp.MustCompile(`\(\s*\)\s*\{`),
		regexp.MustCompile(`function\s*\(`),
	}
)

// Form is a contact form submission. Phone is optional.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// ValidationError is a rejected form with the message to show the visitor.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Trimmed returns a copy of f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(f.Message),
	}
}

func (f Form) values() []string {
	return []string{f.Name, f.Email, f.Phone, f.Message}
}

// Validate checks required fields, formats, unsafe content and lengths, in
// that order, and returns the first failure as a *ValidationError.
func (f Form) Validate() error {
	switch {
	case f.Name == "":
		return &ValidationError{Field: "name", Message: MsgNameRequired}
	case f.Email == "":
		return &ValidationError{Field: "email", Message: MsgEmailRequired}
	case f.Message == "":
		return &ValidationError{Field: "message", Message: MsgMessageRequired}
	}

	if !emailRegex.MatchString(f.Email) {
		return &ValidationError{Field: "email", Message: MsgEmailInvalid}
	}
	if f.Phone != "" && !phoneRegex.MatchString(f.Phone) {
		return &ValidationError{Field: "phone", Message: MsgPhoneInvalid}
	}

	for _, v := range f.values() {
		if htmlRegex.MatchString(v) {
			return &ValidationError{Message: MsgHTMLNotAllowed}
		}
	}
	for _, pattern := range scriptPatterns {
		for _, v := range f.values() {
			if pattern.MatchString(v) {
				return &ValidationError{Message: MsgUnsafeContent}
			}
		}
	}

	switch {
	case utf8.RuneCountInString(f.Name) > MaxNameLength:
		return &ValidationError{Field: "name", Message: MsgNameTooLong}
	case utf8.RuneCountInString(f.Email) > MaxEmailLength:
		return &ValidationError{Field: "email", Message: MsgEmailTooLong}
	case utf8.RuneCountInString(f.Message) > MaxMessageLength:
		return &ValidationError{Field: "message", Message: MsgMessageTooLong}
	}

	return nil
}
