// Package sheets wraps the Google Sheets API for the waitlist spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Sheet is the minimal spreadsheet surface the waitlist service needs.
type Sheet interface {
	// ColumnValues returns the first cell of every row in the given A1 range.
	ColumnValues(ctx context.Context, rangeA1 string) ([]string, error)
	// AppendRow appends one row to the given A1 range and returns the number
	// of rows written.
	AppendRow(ctx context.Context, rangeA1 string, row []interface{}) (int64, error)
}

// Client implements Sheet against one spreadsheet using a service account.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewClientConfig contains options for creating a new Client.
type NewClientConfig struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	// PrivateKey is the service account PEM key. Escaped "\n" sequences are
	// normalized, matching how the key is usually stored in env vars.
	PrivateKey string
}

// NewClient creates a Sheets client authenticated as the service account.
func NewClient(ctx context.Context, cfg NewClientConfig) (*Client, error) {
	if cfg.SpreadsheetID == "" || cfg.ServiceAccountEmail == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("spreadsheet ID, service account email and private key are required")
	}

	jwtConf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	log.Println("Google Sheets client initialized successfully.")
	return &Client{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// ColumnValues implements Sheet.
func (c *Client) ColumnValues(ctx context.Context, rangeA1 string) ([]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rangeA1, err)
	}

	values := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok {
			values = append(values, cell)
		}
	}
	return values, nil
}

// AppendRow implements Sheet.
func (c *Client) AppendRow(ctx context.Context, rangeA1 string, row []interface{}) (int64, error) {
	resp, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, rangeA1, &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append row to range %s: %w", rangeA1, err)
	}
	if resp.Updates == nil {
		return 0, nil
	}
	return resp.Updates.UpdatedRows, nil
}
