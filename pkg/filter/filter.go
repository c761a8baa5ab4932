package filter

import "strings"

const sectionDelimiter = " :: "

func MakeCategory(sections ...string) string {
	return strings.Join(sections, sectionDelimiter)
}

type Blacklist []string

// MakeBlacklist builds a blacklist from user-supplied category names. Names
// may be written with a leading hash sign (the way tags appear in posts);
// empty entries are dropped.
func MakeBlacklist(categories ...string) Blacklist {
	blacklist := make(Blacklist, 0, len(categories))

	for _, category := range categories {
		category = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(category), "#"))
		if category != "" {
			blacklist = append(blacklist, category)
		}
	}

	return blacklist
}

func (b Blacklist) IsBlacklisted(category string) bool {
	for _, blacklisted := range b {
		if category == blacklisted || strings.HasPrefix(category, blacklisted+sectionDelimiter) {
			return true
		}
	}
	return false
}
