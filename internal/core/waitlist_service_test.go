package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lekhak-backend-go/internal/models"
)

type fakeSheet struct {
	emails    []string
	readErr   error
	appendErr error
	appended  [][]interface{}
}

func (f *fakeSheet) ColumnValues(ctx context.Context, rangeA1 string) ([]string, error) {
	return f.emails, f.readErr
}

func (f *fakeSheet) AppendRow(ctx context.Context, rangeA1 string, row []interface{}) (int64, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.appended = append(f.appended, row)
	return 1, nil
}

func TestJoinAppendsSignup(t *testing.T) {
	sheet := &fakeSheet{emails: []string{"Email", "someone@example.com"}}
	svc := NewWaitlistService(sheet, nil)

	result, err := svc.Join(context.Background(), models.JoinWaitlistRequest{
		Email:          "new@example.com",
		Name:           "New Person",
		ProfilePicture: "https://example.com/p.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", result.Email)
	assert.Equal(t, int64(1), result.RowsAdded)

	require.Len(t, sheet.appended, 1)
	row := sheet.appended[0]
	require.Len(t, row, 5)
	assert.Equal(t, "new@example.com", row[0])
	assert.Equal(t, "New Person", row[1])
	assert.Equal(t, "waitlist_signup", row[3])
	assert.Equal(t, "https://example.com/p.png", row[4])
}

func TestJoinRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	sheet := &fakeSheet{emails: []string{"Email", "Someone@Example.com"}}
	svc := NewWaitlistService(sheet, nil)

	_, err := svc.Join(context.Background(), models.JoinWaitlistRequest{
		Email: "someone@example.com",
		Name:  "Someone",
	})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Empty(t, sheet.appended)
}

func TestJoinRequiresEmailAndName(t *testing.T) {
	svc := NewWaitlistService(&fakeSheet{}, nil)

	_, err := svc.Join(context.Background(), models.JoinWaitlistRequest{Email: "  ", Name: "x"})
	assert.Error(t, err)

	_, err = svc.Join(context.Background(), models.JoinWaitlistRequest{Email: "a@b.com", Name: ""})
	assert.Error(t, err)
}

func TestJoinPropagatesSheetErrors(t *testing.T) {
	svc := NewWaitlistService(&fakeSheet{readErr: errors.New("api unavailable")}, nil)

	_, err := svc.Join(context.Background(), models.JoinWaitlistRequest{
		Email: "a@b.com",
		Name:  "A",
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestJoinKeepsExplicitSource(t *testing.T) {
	sheet := &fakeSheet{}
	svc := NewWaitlistService(sheet, nil)

	_, err := svc.Join(context.Background(), models.JoinWaitlistRequest{
		Email:  "a@b.com",
		Name:   "A",
		Source: "landing_page",
	})

	require.NoError(t, err)
	require.Len(t, sheet.appended, 1)
	assert.Equal(t, "landing_page", sheet.appended[0][3])
}
