package gsheets

import (
	"fmt"
	"regexp"
	"strings"
)

var spreadsheetIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&#]id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]+)$`),
}

// ExtractSpreadsheetID accepts a spreadsheet URL or a bare ID and returns
// the ID.
func ExtractSpreadsheetID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("spreadsheet reference is empty")
	}
	for _, re := range spreadsheetIDPatterns {
		if m := re.FindStringSubmatch(ref); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("cannot extract spreadsheet ID from %q", ref)
}

// SpreadsheetURL returns the edit URL for id.
func SpreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id + "/edit"
}
