package hrf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// normalizeHeaders trims names and makes duplicates unique, keeping order.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = generateColumnName(i)
		}
		headers[i] = h
	}
	return ValidateHeaders(headers)
}

// ValidateHeaders renames duplicates as name_1, name_2, ...
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]int)
	result := make([]string, len(headers))

	for i, header := range headers {
		original := header
		counter := 1
		for {
			if _, exists := seen[header]; exists {
				header = fmt.Sprintf("%s_%d", original, counter)
				counter++
				continue
			}
			seen[header] = 1
			break
		}
		result[i] = header
	}
	return result
}

func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

// headerLooksLikeData reports whether most fields of the first record are numbers,
// which means the file was written without a header row.
func headerLooksLikeData(firstRow []string) bool {
	if len(firstRow) == 0 {
		return false
	}
	headerLike := 0
	for _, field := range firstRow {
		if isLikelyHeader(field) {
			headerLike++
		}
	}
	return float64(headerLike)/float64(len(firstRow)) < 0.5
}

func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return false
	}

	letters := 0
	total := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return false
	}
	return letters > 0 && float64(letters)/float64(total) >= 0.3
}
