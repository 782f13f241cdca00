// Package locate finds employee rows in a store and the metric block each
// employee owns in the payroll sheet.
package locate

import (
	"strings"

	"github.com/Tiliavir/orometrisi/internal/sheet"
)

// IDWidth is the width of a normalized employee identifier (ΑΦΜ).
const IDWidth = 9

// NormalizeID reduces a cell to the digits it contains, zero-padded to
// IDWidth. Cells without digits normalize to "".
func NormalizeID(v sheet.Value) string {
	return NormalizeIDText(v.String())
}

// NormalizeIDText is NormalizeID for text.
func NormalizeIDText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) < IDWidth {
		digits = strings.Repeat("0", IDWidth-len(digits)) + digits
	}
	return digits
}

// IsStrictID reports whether s is exactly IDWidth ASCII digits.
func IsStrictID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != IDWidth {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Options bounds a FindRows scan. Zero values mean: from row 1, to the last
// row of the store, across every column, substring matching, no cache.
type Options struct {
	MinRow  int
	MaxRow  int
	Columns []int
	Strict  bool
	Cache   *Cache
}

type cacheKey struct {
	store sheet.StoreID
	id    string
}

// Cache memoizes FindRows results per store. Two stores holding the same
// identifier never share an entry. A Cache is meant for one scan
// configuration per store and is not safe for concurrent use.
type Cache struct {
	rows map[cacheKey][]int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{rows: map[cacheKey][]int{}}
}

func (c *Cache) get(k cacheKey) ([]int, bool) {
	rows, ok := c.rows[k]
	return rows, ok
}

func (c *Cache) put(k cacheKey, rows []int) {
	c.rows[k] = rows
}

// Len returns the number of cached lookups.
func (c *Cache) Len() int { return len(c.rows) }

// FindRows returns, in ascending order, the rows of store whose scanned
// cells match employeeID. Strict matching compares normalized identifiers;
// otherwise the identifier may appear anywhere inside a cell. An empty
// result means not found.
func FindRows(store sheet.Store, employeeID string, opts Options) []int {
	target := NormalizeIDText(employeeID)
	if target == "" {
		return nil
	}

	key := cacheKey{store: store.ID(), id: target}
	if opts.Cache != nil {
		if rows, ok := opts.Cache.get(key); ok {
			return append([]int(nil), rows...)
		}
	}

	minRow := opts.MinRow
	if minRow < 1 {
		minRow = 1
	}
	maxRow := opts.MaxRow
	if maxRow < 1 || maxRow > store.MaxRow() {
		maxRow = store.MaxRow()
	}
	cols := opts.Columns
	if len(cols) == 0 {
		cols = make([]int, store.MaxColumn())
		for i := range cols {
			cols[i] = i + 1
		}
	}

	var matches []int
	for r := minRow; r <= maxRow; r++ {
		for _, c := range cols {
			v := store.Cell(r, c)
			if v.IsEmpty() {
				continue
			}
			if matchID(v, target, opts.Strict) {
				matches = append(matches, r)
				break
			}
		}
	}

	if opts.Cache != nil {
		opts.Cache.put(key, append([]int(nil), matches...))
	}
	return matches
}

func matchID(v sheet.Value, target string, strict bool) bool {
	id := NormalizeID(v)
	if strict {
		return id == target
	}
	return (id != "" && strings.Contains(id, target)) || strings.Contains(v.String(), target)
}

// IndexColumn maps every normalized identifier found in column col between
// minRow and maxRow to the rows holding it, in ascending order.
func IndexColumn(store sheet.Store, col, minRow, maxRow int) map[string][]int {
	if maxRow < 1 || maxRow > store.MaxRow() {
		maxRow = store.MaxRow()
	}
	index := map[string][]int{}
	for r := max(minRow, 1); r <= maxRow; r++ {
		id := NormalizeID(store.Cell(r, col))
		if id == "" {
			continue
		}
		index[id] = append(index[id], r)
	}
	return index
}
