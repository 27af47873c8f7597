package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name+".toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFormatMessage_NoPrompt(t *testing.T) {
	got, model, err := FormatMessage("hello", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Nil(t, model)
}

func TestFormatMessage_SystemAndArgs(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "translate", `
system = "You translate into {{lang}}."
user = "Translate: {{input}}"
model = "gemini:gemini-2.5-pro"
`)

	got, model, err := FormatMessage("good morning", "translate", []string{dir}, []string{"lang:French"})
	require.NoError(t, err)
	assert.Equal(t, "System: You translate into French.\n\nUser: Translate: good morning", got)
	require.NotNil(t, model)
	assert.Equal(t, "gemini:gemini-2.5-pro", *model)
}

func TestFormatMessage_SubstitutionIsSinglePass(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "nested", `user = "{{a}} / {{b}} / {{input}}"`)

	// Values carrying placeholders are not expanded again, whatever order
	// the arguments were given in.
	for i := 0; i < 20; i++ {
		got, _, err := FormatMessage("see {{a}}", "nested", []string{dir}, []string{"b:{{input}}", "a:{{b}}"})
		require.NoError(t, err)
		assert.Equal(t, "{{b}} / {{input}} / see {{a}}", got)
	}
}

func TestFormatMessage_UserOnly(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "review/go", `user = "Review this Go code:\n{{input}}"`)

	got, model, err := FormatMessage("func main() {}", "review/go", []string{dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Review this Go code:\nfunc main() {}", got)
	assert.Nil(t, model)
}

func TestFormatMessage_LaterDirectoryWins(t *testing.T) {
	system := t.TempDir()
	user := t.TempDir()
	writePrompt(t, system, "p", `user = "system {{input}}"`)
	writePrompt(t, user, "p", `user = "user {{input}}"`)

	got, _, err := FormatMessage("x", "p", []string{system, user}, nil)
	require.NoError(t, err)
	assert.Equal(t, "user x", got)
}

func TestFormatMessage_Errors(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, dir, "bad-model", "user = \"{{input}}\"\nmodel = \"no-provider\"")
	writePrompt(t, dir, "typo", "usr = \"{{input}}\"")
	writePrompt(t, dir, "ok", "user = \"{{input}}\"")

	_, _, err := FormatMessage("x", "missing", []string{dir}, nil)
	assert.Error(t, err)

	_, _, err = FormatMessage("x", "bad-model", []string{dir}, nil)
	assert.Error(t, err)

	_, _, err = FormatMessage("x", "typo", []string{dir}, nil)
	assert.Error(t, err)

	_, _, err = FormatMessage("x", "ok", []string{dir}, []string{"input:override"})
	assert.Error(t, err)

	_, _, err = FormatMessage("x", "ok", []string{dir}, []string{"novalue"})
	assert.Error(t, err)
}

func TestProcessArgs(t *testing.T) {
	got, err := processArgs([]string{`url:https\://example.com`, `quote:say \"hi\" now`, " spaced : value "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"url":    "https://example.com",
		"quote":  `say "hi" now`,
		"spaced": "value",
	}, got)
}

func TestList(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writePrompt(t, first, "a", `user = "a"`)
	writePrompt(t, first, "nested/b", `user = "b"`)
	writePrompt(t, second, "a", `user = "a2"`)
	require.NoError(t, os.WriteFile(filepath.Join(second, "README.md"), []byte("x"), 0644))

	names, dirs, err := List([]string{first, second, filepath.Join(first, "absent")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "nested/b"}, names)
	assert.Equal(t, second, dirs["a"])
	assert.Equal(t, first, dirs["nested/b"])
}
