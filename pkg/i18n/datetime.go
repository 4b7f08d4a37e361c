package i18n

import "time"

// dateTimeLayout is the pt-BR short date/time format used across the dashboard
const dateTimeLayout = "02/01/2006 15:04"

// FormatDateTime renders a timestamp as "dd/mm/aaaa hh:mm". Nil renders "-",
// matching how empty cells are displayed.
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(dateTimeLayout)
}

// FormatDateTimeValue is the non-pointer convenience variant
func FormatDateTimeValue(t time.Time) string {
	return FormatDateTime(&t)
}
