package value

import "strconv"

// RootPath is the canonical path of the document root.
const RootPath = "$"

// Field appends an object-member step to prefix, rendering the canonical
// dot-bracketed form: `prefix.['key']`.
func Field(prefix, key string) string {
	return prefix + ".['" + key + "']"
}

// Index appends an array-index step to prefix: `prefix[n]`.
func Index(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}
