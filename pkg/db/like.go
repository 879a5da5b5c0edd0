package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search term into a case-insensitive substring pattern
// for ContainsClause. LIKE wildcards in the term match literally.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// ContainsClause ORs a lower-cased LIKE over columns, one placeholder each.
func ContainsClause(columns ...string) string {
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = "LOWER(" + column + `) LIKE ? ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
