package database

import "strings"

// sortColumns whitelists the listing sort keys. Anything else falls
// back to the default ordering, matching the reference behavior of
// silently ignoring unknown sort parameters.
var sortColumns = map[string]string{
	"preparation_time": "preparation_time",
	"cooking_time":     "cooking_time",
	"servings":         "servings",
	"created_at":       "created_at",
}

const defaultOrder = "created_at DESC, id DESC"

// orderClause maps a client sort key ("cooking_time", "-servings")
// to a safe ORDER BY clause. Only whitelisted column names are ever
// interpolated.
func orderClause(sort string) string {
	direction := "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = sort[1:]
	}

	column, ok := sortColumns[sort]
	if !ok {
		return defaultOrder
	}
	return column + " " + direction + ", id " + direction
}
