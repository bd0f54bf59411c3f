package logger

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9 ()-]{6,}[0-9]`)
)

// RedactEmail masks an email address for safe logging.
// "mara.k@example.com" → "ma***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactPhone keeps only the last two digits of a phone number.
func RedactPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) < 2 {
		return "***"
	}
	return "***" + digits[len(digits)-2:]
}

// redactValue masks tenant contact details based on the field key, and
// scrubs any embedded emails or phone numbers from generic fields.
func redactValue(key, val string) string {
	k := strings.ToLower(key)
	if strings.Contains(k, "email") || strings.Contains(k, "contact") {
		return emailRe.ReplaceAllStringFunc(val, RedactEmail)
	}
	if strings.Contains(k, "phone") {
		return RedactPhone(val)
	}
	return emailRe.ReplaceAllStringFunc(val, RedactEmail)
}
