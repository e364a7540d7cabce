package repositories

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// newBuilder returns the statement builder shared by every repository.
func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE pattern matching it anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// ilikeAny matches pattern against any of the given columns.
func ilikeAny(pattern string, columns ...string) squirrel.Or {
	or := make(squirrel.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return or
}

// toggleLikeSQL builds a single statement that flips a (target, user) like row in table and
// returns whether the like now exists plus the resulting like count. The outer select sees
// the pre-statement snapshot, so the count is corrected by the CTE outcomes.
func toggleLikeSQL(table, column string) string {
	return fmt.Sprintf(`
WITH removed AS (
	DELETE FROM %[1]s WHERE %[2]s = $1 AND user_id = $2 RETURNING 1
), inserted AS (
	INSERT INTO %[1]s (%[2]s, user_id)
	SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removed)
	ON CONFLICT (%[2]s, user_id) DO NOTHING
	RETURNING 1
)
SELECT EXISTS (SELECT 1 FROM inserted),
	(SELECT count(*) FROM %[1]s WHERE %[2]s = $1)
		- (SELECT count(*) FROM removed)
		+ (SELECT count(*) FROM inserted)`, table, column)
}
