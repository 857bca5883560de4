package util

import (
	"strings"
)

// NameParts is a free-text display name decomposed into billing-address
// fields. An empty string means the part is absent. If the input is
// non-empty, at least one of FirstName/LastName is set.
type NameParts struct {
	Title     string
	FirstName string
	LastName  string
}

// Recognized honorific prefixes, matched case-insensitively against the
// leading whitespace-delimited token (with an optional trailing period).
var honorifics = map[string]bool{
	"mr":     true,
	"mrs":    true,
	"ms":     true,
	"miss":   true,
	"mx":     true,
	"dr":     true,
	"master": true,
	"sir":    true,
	"lady":   true,
	"madam":  true,
	"dame":   true,
	"lord":   true,
	"esq":    true,
	"rev":    true,
}

// SplitName dissects a display name into title, first name and last name.
//
// The honorific match requires the prefix to be a whole token followed by a
// space, so "Missy Elliot" splits as a plain first/last pair rather than
// matching "Miss". When an honorific is followed by a single word, that word
// is the last name ("Mrs Bing" has no first name).
func SplitName(name string) NameParts {
	name = strings.TrimSpace(name)
	if name == "" {
		return NameParts{}
	}

	var title, first, last string

	if hasHonorificPrefix(name) {
		parts := strings.SplitN(name, " ", 3)
		title = parts[0]
		if len(parts) == 3 {
			first = parts[1]
			last = parts[2]
		} else {
			// "Mrs Bing": the single remaining word is the surname
			last = parts[1]
		}
	} else {
		parts := strings.SplitN(name, " ", 2)
		first = parts[0]
		if len(parts) == 2 {
			last = parts[1]
		}
	}

	return NameParts{
		Title:     cleanPart(title),
		FirstName: cleanPart(first),
		LastName:  cleanPart(last),
	}
}

// hasHonorificPrefix reports whether the name starts with a recognized
// honorific token terminated by a space. The token boundary is required:
// letters alone never terminate the match.
func hasHonorificPrefix(name string) bool {
	i := strings.IndexByte(name, ' ')
	if i <= 0 {
		return false
	}
	token := strings.TrimSuffix(name[:i], ".")
	return honorifics[strings.ToLower(token)]
}

// cleanPart strips trailing periods and surrounding whitespace
func cleanPart(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, ". "))
}
