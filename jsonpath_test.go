package jsonpath_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonpath "github.com/njchilds90/jsonquery"
	"github.com/njchilds90/jsonquery/internal/fixtures"
	"github.com/njchilds90/jsonquery/value"
)

func valueCmp() cmp.Option {
	return cmp.Comparer(func(a, b value.Value) bool { return value.Equal(a, b) })
}

func strValues(t *testing.T, vals []value.Value) []string {
	t.Helper()
	out := make([]string, len(vals))
	for i, v := range vals {
		s, ok := v.Str()
		require.Truef(t, ok, "value %d is not a string: %#v", i, v)
		out[i] = s
	}
	return out
}

func TestFindRoot(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, cmp.Equal(doc, got[0], valueCmp()))
}

func TestFindChildKey(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.expensive")
	require.NoError(t, err)
	require.Len(t, got, 1)
	n, ok := got[0].NumberVal()
	require.True(t, ok)
	assert.Equal(t, int64(10), func() int64 { i, _ := n.Int64(); return i }())
}

func TestFindNestedKey(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.bicycle.color")
	require.NoError(t, err)
	require.Len(t, got, 1)
	s, ok := got[0].Str()
	require.True(t, ok)
	assert.Equal(t, "red", s)
}

func TestFindArrayIndex(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[0].title")
	require.NoError(t, err)
	require.Len(t, got, 1)
	s, _ := got[0].Str()
	assert.Equal(t, "Sayings of the Century", s)
}

func TestFindNegativeIndexDoesNotWrap(t *testing.T) {
	// Bare Index selectors do not wrap negative values the way a slice does.
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[-1].title")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsNull())
}

func TestFindSliceLastElement(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[-1:].title")
	require.NoError(t, err)
	require.Len(t, got, 1)
	s, _ := got[0].Str()
	assert.Equal(t, "The Lord of the Rings", s)
}

func TestFindWildcardArray(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[*].title")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Sayings of the Century", "Sword of Honour", "Moby Dick", "The Lord of the Rings",
	}, strValues(t, got))
}

func TestFindWildcardObject(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.*")
	require.NoError(t, err)
	assert.Len(t, got, 2) // book, bicycle
}

func TestFindRecursiveDescentAuthor(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$..author")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestFindRecursiveDescentField(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.FindAsPath(doc, "$..price")
	require.NoError(t, err)
	assert.Len(t, got, 5) // 4 books + bicycle
}

func TestFindFilterComparison(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[?(@.price < 10)].title")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sayings of the Century", "Moby Dick"}, strValues(t, got))
}

func TestFindFilterExistence(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[?(@.isbn)].title")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Moby Dick", "The Lord of the Rings"}, strValues(t, got))
}

func TestFindFilterRegex(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, `$.store.book[?(@.author ~= "^J")].title`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"The Lord of the Rings"}, strValues(t, got))
}

func TestFindFilterAndOr(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, `$.store.book[?(@.category == 'fiction' && @.price < 13)].title`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sword of Honour", "Moby Dick"}, strValues(t, got))
}

// TestFilterLeadingNotPrecedence checks that `!` wraps the whole comparison
// atom, so `!@.does_not_exist >= 1.0` and `!(@.does_not_exist >= 1.0)` are
// the same expression and both match every book (the field never exists,
// so the inner comparison is always false, and negating false is true).
func TestFilterLeadingNotPrecedence(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	plain, err := jsonpath.Find(doc, "$.store.book[?(!@.does_not_exist >= 1.0)].title")
	require.NoError(t, err)
	parenthesized, err := jsonpath.Find(doc, "$.store.book[?(!(@.does_not_exist >= 1.0))].title")
	require.NoError(t, err)

	assert.Equal(t, strValues(t, plain), strValues(t, parenthesized))
	assert.Len(t, plain, 4)
}

func TestFindSetOperators(t *testing.T) {
	doc, err := fixtures.Orders()
	require.NoError(t, err)

	t.Run("subsetOf", func(t *testing.T) {
		got, err := jsonpath.Find(doc, "$.orders[?(@.tags subsetOf $.allowedTags)].id")
		require.NoError(t, err)
		assert.Len(t, got, 3) // orders 1001, 1003, 1004 (empty tags is a subset of anything)
	})

	t.Run("anyOf", func(t *testing.T) {
		got, err := jsonpath.Find(doc, "$.orders[?(@.tags anyOf ['fragile'])].id")
		require.NoError(t, err)
		assert.Len(t, got, 1) // only order 1003
	})

	t.Run("noneOf", func(t *testing.T) {
		got, err := jsonpath.Find(doc, "$.orders[?(@.tags noneOf ['priority'])].id")
		require.NoError(t, err)
		assert.Len(t, got, 2) // orders 1002, 1004
	})

	t.Run("in", func(t *testing.T) {
		got, err := jsonpath.Find(doc, "$.orders[?(@.status in ['shipped','pending'])].id")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestFindSizeTest(t *testing.T) {
	doc, err := fixtures.Orders()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.orders[?(@.tags size 2)].id")
	require.NoError(t, err)
	assert.Len(t, got, 1) // only order 1001 has exactly two tags
}

func TestLengthPerElement(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[*].title.length()")
	require.NoError(t, err)
	require.Len(t, got, 4)
	n, ok := got[0].NumberVal()
	require.True(t, ok)
	i, _ := n.Int64()
	assert.Equal(t, int64(len("Sayings of the Century")), i)
}

func TestLengthOverObjectCollapsesToNullThroughFind(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	// length() over an object yields NoValue (object member counts aren't
	// sizes), and Find's projection renders that NoValue as a bare JSON
	// null. The underlying record is not a real null match; FindSlice
	// below is the API that can tell the two apart.
	got, err := jsonpath.Find(doc, "$.store.bicycle.length()")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsNull())

	records, err := jsonpath.FindSlice(doc, "$.store.bicycle.length()")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasValue())
}

func TestFindCannotDistinguishNoMatchFromGenuineNullMatch(t *testing.T) {
	// Find's []value.Value result is ambiguous by construction: a field
	// whose own value is JSON null and a query that matched nothing both
	// come back as a single-element slice holding value.NullValue.
	doc, err := value.FromJSON([]byte(`{"present":null}`))
	require.NoError(t, err)

	noMatch, err := jsonpath.Find(doc, "$.absent")
	require.NoError(t, err)
	genuineNull, err := jsonpath.Find(doc, "$.present")
	require.NoError(t, err)
	assert.Equal(t, noMatch, genuineNull)

	// FindSlice preserves the distinction Find cannot: HasValue is false
	// for the no-match case and true for the real null-valued match.
	noMatchRecords, err := jsonpath.FindSlice(doc, "$.absent")
	require.NoError(t, err)
	require.Len(t, noMatchRecords, 1)
	assert.False(t, noMatchRecords[0].HasValue())

	genuineNullRecords, err := jsonpath.FindSlice(doc, "$.present")
	require.NoError(t, err)
	require.Len(t, genuineNullRecords, 1)
	require.True(t, genuineNullRecords[0].HasValue())
	v, ok := genuineNullRecords[0].Value()
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestLengthAfterFilterCountsMatches(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.Find(doc, "$.store.book[?(@.price < 13)].length()")
	require.NoError(t, err)
	require.Len(t, got, 1)
	n, ok := got[0].NumberVal()
	require.True(t, ok)
	i, _ := n.Int64()
	assert.Equal(t, int64(3), i) // Sayings, Sword of Honour, Moby Dick
}

func TestFindSliceCollapsesEmptyResultToNoValue(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	records, err := jsonpath.FindSlice(doc, "$.store.book[?(@.price > 1000)]")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasValue())

	// Find() maps that sole NoValue record to a JSON null.
	values, err := jsonpath.Find(doc, "$.store.book[?(@.price > 1000)]")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.True(t, values[0].IsNull())
}

func TestFindAsPathFormat(t *testing.T) {
	doc, err := fixtures.Store()
	require.NoError(t, err)

	got, err := jsonpath.FindAsPath(doc, "$.store.book[0].author")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "$.['store'].['book'][0].['author']", got[0])
}

func TestCompileInvalidPathIsParseError(t *testing.T) {
	_, err := jsonpath.Compile("store.book")
	require.Error(t, err)
	assert.True(t, jsonpath.IsParseError(err))
	assert.False(t, jsonpath.IsCompileError(err))
}

func TestCompileRegexCacheLimitIsCompileError(t *testing.T) {
	_, err := jsonpath.Compile(
		`$.store.book[?(@.title ~= "a" || @.title ~= "b")]`,
		jsonpath.WithRegexCache(1),
	)
	require.Error(t, err)
	assert.True(t, jsonpath.IsCompileError(err))
}

func TestCompileZeroSliceStepIsCompileError(t *testing.T) {
	_, err := jsonpath.Compile("$.store.book[::0]")
	require.Error(t, err)
	assert.True(t, jsonpath.IsCompileError(err))
}

func TestCompileInvalidRegexIsCompileError(t *testing.T) {
	_, err := jsonpath.Compile(`$.store.book[?(@.title ~= "(")]`)
	require.Error(t, err)
	assert.True(t, jsonpath.IsCompileError(err))
}

func TestMustCompilePanicsOnInvalidPath(t *testing.T) {
	assert.Panics(t, func() {
		jsonpath.MustCompile("not-a-path")
	})
}

func TestCompiledPathReusedAcrossDocuments(t *testing.T) {
	cp := jsonpath.MustCompile("$.status")
	doc1, err := value.FromJSON([]byte(`{"status":"ok"}`))
	require.NoError(t, err)
	doc2, err := value.FromJSON([]byte(`{"status":"degraded"}`))
	require.NoError(t, err)

	got1, err := cp.Find(doc1)
	require.NoError(t, err)
	got2, err := cp.Find(doc2)
	require.NoError(t, err)

	s1, _ := got1[0].Str()
	s2, _ := got2[0].Str()
	assert.Equal(t, "ok", s1)
	assert.Equal(t, "degraded", s2)
}
