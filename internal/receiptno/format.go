package receiptno

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

const DefaultTemplate = "AR-{YYYY}-{SEQ6}"

// FormatReceiptNumber renders template for the given time and sequence.
// It has no side effects.
func FormatReceiptNumber(template string, at time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("receipt number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid receipt sequence: %d", seq)
	}

	out := template
	out = strings.ReplaceAll(out, "{YYYY}", at.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", at.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", at.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", at.Format("02"))
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in receipt format: %s", out)
	}
	return out, nil
}

// ValidateTemplate reports whether template renders and carries a sequence token.
func ValidateTemplate(template string) error {
	if !strings.Contains(template, "{SEQ") {
		return fmt.Errorf("receipt number template %q has no sequence token", template)
	}
	_, err := FormatReceiptNumber(template, time.Unix(0, 0).UTC(), 1)
	return err
}

// PeriodFor returns the sequence bucket a receipt issued at t falls in. The
// sequence restarts whenever the finest date token in template changes.
func PeriodFor(template string, t time.Time) string {
	switch {
	case strings.Contains(template, "{DD}"):
		return t.Format("2006-01-02")
	case strings.Contains(template, "{MM}"):
		return t.Format("2006-01")
	case strings.Contains(template, "{YYYY}"), strings.Contains(template, "{YY}"):
		return t.Format("2006")
	default:
		return "all"
	}
}
