package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lekhak-backend-go/internal/models"
	"lekhak-backend-go/pkg/mailer"
	"lekhak-backend-go/pkg/sheets"
)

// ErrDuplicateEmail is returned when the email already sits on the waitlist.
var ErrDuplicateEmail = errors.New("email already registered on the waitlist")

const (
	// waitlistEmailRange is the column holding signup emails.
	waitlistEmailRange = "A:A"
	// waitlistRowRange covers one full signup row: email, name, date, source,
	// profile picture.
	waitlistRowRange = "A:E"

	defaultSignupSource = "waitlist_signup"
)

// WaitlistResult describes one accepted signup.
type WaitlistResult struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	SignupDate string `json:"signup_date"`
	RowsAdded  int64  `json:"rows_added"`
}

// waitlistService implements WaitlistService on top of a spreadsheet. The
// sheet is the source of truth; the welcome email is best-effort.
type waitlistService struct {
	sheet  sheets.Sheet
	mailer *mailer.Mailer // may be nil
}

// NewWaitlistService creates a new WaitlistService instance. m may be nil, in
// which case no welcome emails are sent.
func NewWaitlistService(sheet sheets.Sheet, m *mailer.Mailer) WaitlistService {
	if sheet == nil {
		log.Fatal("Waitlist sheet cannot be nil")
	}
	return &waitlistService{sheet: sheet, mailer: m}
}

// Join appends the signup to the spreadsheet unless the email is already
// present. Email comparison is case-insensitive.
func (s *waitlistService) Join(ctx context.Context, req models.JoinWaitlistRequest) (*WaitlistResult, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("email and name are required")
	}

	existing, err := s.sheet.ColumnValues(ctx, waitlistEmailRange)
	if err != nil {
		return nil, fmt.Errorf("failed to check waitlist for duplicates: %w", err)
	}
	for _, e := range existing {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return nil, ErrDuplicateEmail
		}
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultSignupSource
	}
	signupDate := time.Now().UTC().Format("01/02/2006, 03:04:05 PM")

	rows, err := s.sheet.AppendRow(ctx, waitlistRowRange, []interface{}{
		email, name, signupDate, source, req.ProfilePicture,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add '%s' to waitlist: %w", email, err)
	}

	if s.mailer != nil {
		if err := s.mailer.Send(email, "You're on the Lekhak AI waitlist!", welcomeEmailBody(name)); err != nil {
			log.Printf("Failed to send welcome email to '%s': %v", email, err)
		}
	}

	return &WaitlistResult{
		Email:      email,
		Name:       name,
		SignupDate: signupDate,
		RowsAdded:  rows,
	}, nil
}

func welcomeEmailBody(name string) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Thanks for joining the Lekhak AI waitlist. We'll email you as soon as your spot opens up.</p>
<p>The Lekhak AI team</p>
</body></html>`, name)
}
