package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

// normaliseInput folds a command phrase for verb matching. It is never
// applied to arguments, which keep their underscores and case.
func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '?' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// normaliseID folds an argument for id matching: lower case, spaces and
// dashes become underscores.
func normaliseID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(raw)
}

func parseQuantityToken(token string) *Quantity {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return nil
	}
	if n, err := strconv.Atoi(token); err == nil && n > 0 {
		return &Quantity{Raw: token, N: n, Unit: "count"}
	}
	if strings.HasPrefix(token, "x") || strings.HasSuffix(token, "x") {
		trimmed := strings.TrimSuffix(strings.TrimPrefix(token, "x"), "x")
		if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
			return &Quantity{Raw: token, N: n, Unit: "count"}
		}
	}
	return nil
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "it", "that", "this", "last":
		return true
	default:
		return false
	}
}
