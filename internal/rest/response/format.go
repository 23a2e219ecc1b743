package response

import "time"

const DateTimeFormat = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
