package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the convert command with the given args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := NewCmdConvert()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConvert_FileToStdout(t *testing.T) {
	path := writeInput(t, "<p>Hello <strong>world</strong></p>")

	out, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "Hello **world**\n", out)
}

func TestConvert_Stdin(t *testing.T) {
	out, err := execute(t, "<h1>Title</h1>", "-")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", out)
}

func TestConvert_OutputFile(t *testing.T) {
	path := writeInput(t, "<p>Saved</p>")
	outPath := filepath.Join(t.TempDir(), "page.md")

	_, err := execute(t, "", path, "-o", outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Saved\n", string(content))
}

func TestConvert_CalloutStyleFlag(t *testing.T) {
	storage := `<ac:structured-macro ac:name="info"><ac:rich-text-body><p>Note this</p></ac:rich-text-body></ac:structured-macro>`
	path := writeInput(t, storage)

	quote, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Contains(t, quote, "> Note this")

	markers, err := execute(t, "", path, "--callout-style", "markers")
	require.NoError(t, err)
	assert.Contains(t, markers, "===========START CALLOUT 0==========")

	_, err = execute(t, "", path, "--callout-style", "fancy")
	require.Error(t, err)
}

func TestConvert_MaxHeadingLevel(t *testing.T) {
	path := writeInput(t, "<h6>Deep</h6>")

	out, err := execute(t, "", path, "--max-heading-level", "2")
	require.NoError(t, err)
	assert.Equal(t, "## Deep\n", out)
}

func TestConvert_ViewHTML(t *testing.T) {
	path := writeInput(t, `<p>Rendered <b>page</b></p>`)

	out, err := execute(t, "", path, "--view-html")
	require.NoError(t, err)
	assert.Contains(t, out, "**page**")
}

func TestConvert_EmbedsDegradeWithoutSession(t *testing.T) {
	storage := `<p>Before</p><ac:image><ri:attachment ri:filename="pic.png"/></ac:image><p>After</p>`
	path := writeInput(t, storage)

	out, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Before")
	assert.Contains(t, out, "After")
	assert.NotContains(t, out, "pic.png")
	assert.NotContains(t, out, "{{ATTACH")
}

func TestConvert_MissingFile(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}
