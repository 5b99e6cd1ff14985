package mockapi

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Filter is one "column=op.value" query condition.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Reserved query parameters that are not column filters.
var reservedParams = map[string]bool{
	"select": true,
	"order":  true,
	"limit":  true,
	"offset": true,
}

var supportedOps = map[string]bool{
	"eq": true, "neq": true, "gt": true, "gte": true, "lt": true, "lte": true,
	"like": true, "ilike": true, "is": true, "in": true,
}

// ParseFilters reads the column filters of a REST query.
func ParseFilters(query url.Values) ([]Filter, error) {
	var filters []Filter

	for column, values := range query {
		if reservedParams[column] {
			continue
		}

		for _, raw := range values {
			op, value, ok := strings.Cut(raw, ".")
			if !ok || !supportedOps[op] {
				return nil, fmt.Errorf("unsupported filter %s=%s", column, raw)
			}
			filters = append(filters, Filter{Column: column, Op: op, Value: value})
		}
	}

	return filters, nil
}

func matchAll(row Row, filters []Filter) bool {
	for _, f := range filters {
		if !f.match(row[f.Column]) {
			return false
		}
	}

	return true
}

func (f Filter) match(v interface{}) bool {
	switch f.Op {
	case "is":
		switch f.Value {
		case "null":
			return v == nil
		case "true":
			return v == true
		case "false":
			return v == false
		}
		return false
	case "in":
		list := strings.Split(strings.Trim(f.Value, "()"), ",")
		for _, item := range list {
			if compareValues(v, strings.Trim(item, `"`)) == 0 {
				return true
			}
		}
		return false
	case "like", "ilike":
		if v == nil {
			return false
		}
		return likePattern(f.Value, f.Op == "ilike").MatchString(fmt.Sprint(v))
	}

	if v == nil {
		return false
	}

	c := compareValues(v, f.Value)
	switch f.Op {
	case "eq":
		return c == 0
	case "neq":
		return c != 0
	case "gt":
		return c > 0
	case "gte":
		return c >= 0
	case "lt":
		return c < 0
	case "lte":
		return c <= 0
	}

	return false
}

// likePattern turns a LIKE pattern using * or % as wildcards into a regexp.
func likePattern(pattern string, fold bool) *regexp.Regexp {
	var b strings.Builder
	if fold {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*', '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	return regexp.MustCompile(b.String())
}

// compareValues orders stored values against each other or against query
// strings. Numbers compare numerically, nil sorts first.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}

	return strings.Compare(toString(a), toString(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}

	return 0, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	}

	return fmt.Sprint(v)
}

// project keeps only the columns of a "select" list. "*" or empty keeps all.
func project(rows []Row, selectList string) []Row {
	if selectList == "" || selectList == "*" {
		return rows
	}

	columns := strings.Split(selectList, ",")
	out := make([]Row, len(rows))
	for i, row := range rows {
		picked := make(Row, len(columns))
		for _, c := range columns {
			c = strings.TrimSpace(c)
			if v, ok := row[c]; ok {
				picked[c] = v
			}
		}
		out[i] = picked
	}

	return out
}
