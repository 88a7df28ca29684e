package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lialzmChina/beancount/ast"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_SingleFile(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.beancount", `include "accounts.beancount"
2014-01-01 close Assets:Cash
`)

	result, err := New().Load(context.Background(), main)
	assert.NoError(t, err)
	assert.True(t, result.Valid())

	// Includes stay unresolved without WithFollowIncludes.
	assert.Equal(t, 1, len(result.Includes))
	assert.Equal(t, 1, len(result.Directives))
}

func TestLoader_FollowIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.beancount", "2014-01-01 open Assets:Cash\n")
	main := writeFile(t, dir, "main.beancount", `include "accounts.beancount"
2014-02-01 close Assets:Cash
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), main)
	assert.NoError(t, err)
	assert.True(t, result.Valid())

	assert.Equal(t, 0, len(result.Includes))
	assert.Equal(t, 2, len(result.Directives))

	// The including file's directives come first, then the included ones.
	assert.Equal(t, "close", result.Directives[0].Directive())
	assert.Equal(t, "open", result.Directives[1].Directive())

	// Positions keep pointing at the file each directive came from.
	assert.Contains(t, result.Directives[1].Position().Filename, "accounts.beancount")
}

func TestLoader_NestedIncludesAndCycles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.beancount", `include "b.beancount"
2014-01-01 open Assets:A
`)
	writeFile(t, dir, "b.beancount", `include "a.beancount"
2014-01-02 open Assets:B
`)
	main := writeFile(t, dir, "main.beancount", "include \"a.beancount\"\n")

	result, err := New(WithFollowIncludes()).Load(context.Background(), main)
	assert.NoError(t, err)
	assert.True(t, result.Valid())

	accounts := make([]ast.Account, 0, 2)
	for _, d := range result.Directives {
		accounts = append(accounts, d.(*ast.Open).Account)
	}
	assert.Equal(t, []ast.Account{"Assets:A", "Assets:B"}, accounts)
}

func TestLoader_MissingIncludeRecordsError(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.beancount", `include "absent.beancount"
2014-01-01 close Assets:Cash
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), main)
	assert.NoError(t, err)

	assert.False(t, result.Valid())
	assert.Equal(t, 1, len(result.Errors))
	assert.Contains(t, result.Errors[0].Message, "cannot read included file")
	assert.Equal(t, 1, len(result.Directives))
}

func TestLoader_MissingRootFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.beancount"))
	assert.Error(t, err)
}

func TestLoader_MergesOptionsAndPlugins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc.beancount", `option "title" "Included"
plugin "p.included"
`)
	main := writeFile(t, dir, "main.beancount", `option "operating_currency" "USD"
include "inc.beancount"
`)

	result, err := New(WithFollowIncludes()).Load(context.Background(), main)
	assert.NoError(t, err)
	assert.True(t, result.Valid())

	assert.Equal(t, 2, len(result.Options))
	assert.Equal(t, 1, len(result.Plugins))
}
