package dataset

import (
	"fmt"
	"strings"

	"github.com/dscurate/dscurate/pkg/filter"
)

// alwaysTrue replaces a filter group that has no constraint.
const alwaysTrue = "TRUE"

// Query is a parameterized SQL statement. Values from a Filter never end
// up in SQL text, only in Args.
type Query struct {
	SQL  string
	Args []any
}

// Query returns the statement that selects id, identifier, extension and
// raw tags of every record matching the filter.
func (c Convention) Query(f filter.Filter) Query {
	l := layouts[c.kind]
	where, args := c.where(f)
	sql := fmt.Sprintf(
		"SELECT %s, %s, %s, %s FROM %s\nWHERE %s",
		l.idCol, l.identCol, l.extCol, l.tagCol, l.table, where,
	)
	return Query{SQL: sql, Args: args}
}

// CountQuery returns the statement that counts the records Query selects.
func (c Convention) CountQuery(f filter.Filter) Query {
	l := layouts[c.kind]
	where, args := c.where(f)
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s\nWHERE %s", l.table, where)
	return Query{SQL: sql, Args: args}
}

// binder collects positional arguments in placeholder order.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "?"
}

func (c Convention) where(f filter.Filter) (string, []any) {
	l := layouts[c.kind]
	b := &binder{}

	groups := []string{
		tagsClause(b, l.tagCol, f.Tags, f.ExcludedTags),
		inClause(b, l.extCol, f.Extensions),
		inClause(b, l.ratingCol, f.Ratings),
		sizeClause(b, l.widthCol, l.heightCol, f.MinSize),
		prefixClause(b, l.md5Col, f.MD5Prefixes),
	}
	for i := range groups {
		groups[i] = "(" + groups[i] + ")"
	}
	return strings.Join(groups, " AND\n  "), b.args
}

func tagsClause(b *binder, col string, tags, excluded []string) string {
	var parts []string
	for _, t := range tags {
		parts = append(parts,
			fmt.Sprintf(`%s LIKE %s ESCAPE '\'`, col, b.bind(contains(t))))
	}
	for _, t := range excluded {
		parts = append(parts,
			fmt.Sprintf(`%s NOT LIKE %s ESCAPE '\'`, col, b.bind(contains(t))))
	}
	if len(parts) == 0 {
		return alwaysTrue
	}
	return strings.Join(parts, " AND ")
}

func inClause(b *binder, col string, vals []string) string {
	if len(vals) == 0 {
		return alwaysTrue
	}
	marks := make([]string, len(vals))
	for i, v := range vals {
		marks[i] = b.bind(v)
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(marks, ", "))
}

func sizeClause(b *binder, widthCol, heightCol string, size int) string {
	if size <= 0 {
		return alwaysTrue
	}
	return fmt.Sprintf("%s >= %s AND %s >= %s",
		widthCol, b.bind(size), heightCol, b.bind(size))
}

func prefixClause(b *binder, col string, prefixes []string) string {
	if len(prefixes) == 0 {
		return alwaysTrue
	}
	parts := make([]string, len(prefixes))
	for i, p := range prefixes {
		parts[i] = fmt.Sprintf(`%s LIKE %s ESCAPE '\'`,
			col, b.bind(escapeLike(p)+"%"))
	}
	return strings.Join(parts, " OR ")
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally. Danbooru tags
// routinely contain underscores.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
