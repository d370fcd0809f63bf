package sanitize

import "strings"

const maxSearchLen = 100

// Notes strips angle brackets, quotes, backslash and semicolon from
// admin-entered notes so raw notes are never interpolated into generated
// content.
func Notes(s string) string {
	r := strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", `\`, "", ";", "")
	return strings.TrimSpace(r.Replace(s))
}

// Search prepares a user-supplied term for use inside a LIKE pattern:
// wildcards escaped, special characters stripped, length capped.
func Search(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxSearchLen {
		s = s[:maxSearchLen]
	}
	var b strings.Builder
	for _, c := range s {
		switch {
		case c == '%' || c == '_':
			b.WriteByte('\\')
			b.WriteRune(c)
		case c == '\'' || c == '"' || c == ';' || c == '\\' || c == '<' || c == '>':
			// dropped
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// CSVCell neutralizes spreadsheet formula injection: values beginning with
// =, +, -, @, tab or carriage return get a leading single quote.
func CSVCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// MaskAccountNumber keeps only the last four digits for listing flows that
// do not need full account numbers.
func MaskAccountNumber(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
