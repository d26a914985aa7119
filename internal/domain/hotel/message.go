package hotel

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const maxMessageBodyLen = 8000

// ContactMessage is a message sent through the public contact form.
// Read is flipped from the admin inbox.
type ContactMessage struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Subject   string    `json:"subject"    db:"subject"`
	Body      string    `json:"body"       db:"body"`
	Read      bool      `json:"read"       db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateMessageRequest carries validated contact-form input.
type CreateMessageRequest struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

var (
	ErrMessageNameRequired = errors.New("name is required")
	ErrMessageEmailInvalid = errors.New("email is invalid")
	ErrMessageBodyRequired = errors.New("message body is required")
	ErrMessageBodyTooLong  = errors.New("message body is too long")
)

// Validate checks the create request fields.
func (r *CreateMessageRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMessageNameRequired
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrMessageEmailInvalid
	}
	if strings.TrimSpace(r.Body) == "" {
		return ErrMessageBodyRequired
	}
	if utf8.RuneCountInString(r.Body) > maxMessageBodyLen {
		return ErrMessageBodyTooLong
	}
	return nil
}
