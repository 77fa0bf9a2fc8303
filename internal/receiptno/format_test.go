package receiptno

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReceiptNumber(t *testing.T) {
	at := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		template string
		seq      int64
		want     string
	}{
		{DefaultTemplate, 1, "AR-2026-000001"},
		{DefaultTemplate, 1234567, "AR-2026-1234567"},
		{"R{YY}{MM}{DD}-{SEQ}", 42, "R260704-42"},
		{"{YYYY}/{SEQ3}", 7, "2026/007"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, err := FormatReceiptNumber(tt.template, at, tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatReceiptNumber_Errors(t *testing.T) {
	at := time.Now()

	_, err := FormatReceiptNumber("", at, 1)
	assert.Error(t, err)

	_, err = FormatReceiptNumber(DefaultTemplate, at, 0)
	assert.Error(t, err)

	_, err = FormatReceiptNumber("AR-{YEAR}-{SEQ6}", at, 1)
	assert.Error(t, err)
}

func TestValidateTemplate(t *testing.T) {
	assert.NoError(t, ValidateTemplate(DefaultTemplate))
	assert.Error(t, ValidateTemplate("AR-{YYYY}"))
	assert.Error(t, ValidateTemplate("AR-{SEQ6}-{Q}"))
}

func TestPeriodFor(t *testing.T) {
	at := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "2026", PeriodFor(DefaultTemplate, at))
	assert.Equal(t, "2026-12", PeriodFor("AR-{YYYY}{MM}-{SEQ4}", at))
	assert.Equal(t, "2026-12-31", PeriodFor("{YY}{MM}{DD}-{SEQ}", at))
	assert.Equal(t, "all", PeriodFor("AR-{SEQ8}", at))
}
