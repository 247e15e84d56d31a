package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/khatt/internal/core/config"
)

// Words B(y=.5,x=.1), A(y=.5,x=.3) and C(y=.1,x=.2) read as "C\nA B".
const sampleResult = `{
  "words": [
    {"text": "B", "boundingBox": {"x": 0.1, "y": 0.5, "width": 0.05, "height": 0.05}},
    {"text": "A", "boundingBox": {"x": 0.3, "y": 0.5, "width": 0.05, "height": 0.05}},
    {"text": "C", "boundingBox": {"x": 0.2, "y": 0.1, "width": 0.05, "height": 0.05}}
  ],
  "identifiedFontStyle": "Naskh"
}`

const diacriticResult = `{
  "words": [
    {"text": "كَتَبَ", "boundingBox": {"x": 0.5, "y": 0.1, "width": 0.2, "height": 0.1}}
  ]
}`

const sampleHOCR = `<html><body>
<div class="ocr_page" title='image "page.png"; bbox 0 0 200 100'>
  <span class="ocrx_word" title="bbox 20 10 60 30">قلم</span>
</div>
</body></html>`

type appResult struct {
	stdout string
	stderr string
	err    error
}

func testFlags(t *testing.T) *Flags {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &Flags{Config: &cfg}
}

// runApp registers a command on a fresh root and runs it with args.
func runApp(t *testing.T, register func(*cli.Command) *cli.Command, args ...string) appResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := &cli.Command{
		Name:           "khatt",
		Writer:         &stdout,
		ErrWriter:      &stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = register(app)

	err := app.Run(context.Background(), append([]string{"khatt"}, args...))
	return appResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func exitCode(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 0
}

func TestExport_ToFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.json", sampleResult)
	out := filepath.Join(dir, "out", "page.txt")

	cmd := NewExportCmd(testFlags(t))
	res := runApp(t, cmd.Register, "export", "--out", out, src)
	require.NoError(t, res.err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "C\nA B\n", string(data))
	assert.Contains(t, res.stderr, "exported to")
}

func TestExport_StdoutWhenNotInteractive(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.json", diacriticResult)

	cmd := NewExportCmd(testFlags(t))
	cmd.interactive = func() bool { return false }

	res := runApp(t, cmd.Register, "export", src)
	require.NoError(t, res.err)
	assert.Equal(t, "كَتَبَ\n", res.stdout)
}

func TestExport_Strip(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.json", diacriticResult)

	cmd := NewExportCmd(testFlags(t))
	res := runApp(t, cmd.Register, "export", "--strip", "--out", "-", src)
	require.NoError(t, res.err)
	assert.Equal(t, "كتب\n", res.stdout)
}

func TestExport_StripFromConfig(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.json", diacriticResult)

	flags := testFlags(t)
	flags.Config.Editor.StripDiacritics = true

	res := runApp(t, NewExportCmd(flags).Register, "export", "-o", "-", src)
	require.NoError(t, res.err)
	assert.Equal(t, "كتب\n", res.stdout)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: []string{"export"}},
		{name: "missing file", args: []string{"export", "--out", "-", "/does/not/exist.json"}},
		{name: "unsupported format", args: []string{"export", "--out", "-", "page.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runApp(t, NewExportCmd(testFlags(t)).Register, tt.args...)
			assert.Error(t, res.err)
		})
	}
}

func TestImportHOCR(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.hocr", sampleHOCR)

	res := runApp(t, NewImportHOCRCmd(testFlags(t)).Register, "import-hocr", src)
	require.NoError(t, res.err)

	var out struct {
		Image  string `json:"image"`
		Result struct {
			Words []map[string]any `json:"words"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))

	assert.Equal(t, "page.png", out.Image)
	require.Len(t, out.Result.Words, 1)
	word := out.Result.Words[0]
	assert.Equal(t, "قلم", word["text"])
	assert.NotContains(t, word, "id", "generated IDs are dropped by default")

	box := word["boundingBox"].(map[string]any)
	assert.InDelta(t, 0.1, box["x"], 1e-9)
	assert.InDelta(t, 0.1, box["y"], 1e-9)
	assert.InDelta(t, 0.2, box["width"], 1e-9)
	assert.InDelta(t, 0.2, box["height"], 1e-9)
}

func TestImportHOCR_ToFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.hocr", sampleHOCR)
	out := filepath.Join(dir, "page.json")

	res := runApp(t, NewImportHOCRCmd(testFlags(t)).Register, "import-hocr", "--keep-ids", "--out", out, src)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "imported 1 words")

	// The imported file is a valid export input.
	res = runApp(t, NewExportCmd(testFlags(t)).Register, "export", "--out", "-", out)
	require.NoError(t, res.err)
	assert.Equal(t, "قلم\n", res.stdout)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", sampleResult)

	res := runApp(t, NewCheckCmd(testFlags(t)).Register, "check", good)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "3 words, 2 lines")
	assert.Contains(t, res.stdout, "1 ok")
}

func TestCheck_EmptyAndOutOfRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", `{"words": []}`)
	writeFile(t, dir, "wide.json", `{"words": [
		{"text": "x", "boundingBox": {"x": 0.9, "y": 0, "width": 0.5, "height": 0.1}},
		{"text": "y", "boundingBox": "n/a"}
	]}`)

	res := runApp(t, NewCheckCmd(testFlags(t)).Register,
		"check", "--format", "json", filepath.Join(dir, "*.json"))
	require.Error(t, res.err)
	assert.Equal(t, 1, exitCode(res.err))

	var out struct {
		Valid bool `json:"valid"`
		Files []struct {
			Path   string `json:"path"`
			Words  int    `json:"words"`
			Error  string `json:"error"`
			Issues []struct {
				Text    string `json:"text"`
				Message string `json:"message"`
			} `json:"issues"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))

	assert.False(t, out.Valid)
	require.Len(t, out.Files, 2)

	empty, wide := out.Files[0], out.Files[1]
	assert.Contains(t, empty.Error, "no words")

	assert.Empty(t, wide.Error)
	assert.Equal(t, 2, wide.Words)
	require.Len(t, wide.Issues, 2)
	assert.Equal(t, "bounding box outside image", wide.Issues[0].Message)
	assert.Equal(t, "missing bounding box", wide.Issues[1].Message)
}

func TestConfigValidate(t *testing.T) {
	flags := testFlags(t)

	res := runApp(t, NewConfigValidateCmd(flags).Register, "config", "validate", "--format", "json")
	require.NoError(t, res.err)

	var out struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.True(t, out.Valid)
}

func TestConfigValidate_FieldErrors(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Export.CopyCommand = "khatt-no-such-copy-command"

	res := runApp(t, NewConfigValidateCmd(flags).Register, "config", "validate")
	require.Error(t, res.err)
	assert.Equal(t, 1, exitCode(res.err))
	assert.Contains(t, res.stdout, "export.copy_command")
	assert.Contains(t, res.stdout, "1 error(s) found")
}

func TestDoctor_JSON(t *testing.T) {
	flags := testFlags(t)

	res := runApp(t, NewDoctorCmd(flags).Register, "doctor", "--format", "json")
	require.NoError(t, res.err)

	var out struct {
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))

	names := make([]string, 0, len(out.Checks))
	for _, c := range out.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Configuration", "Data Directory", "Clipboard", "Terminal"}, names)
}

func TestOpen_NoInputs(t *testing.T) {
	res := runApp(t, NewOpenCmd(testFlags(t)).Register, "open")
	require.ErrorIs(t, res.err, ErrNoInputs)

	res = runApp(t, NewOpenCmd(testFlags(t)).Register, "open", filepath.Join(t.TempDir(), "*.json"))
	require.ErrorIs(t, res.err, ErrNoInputs)
}

func TestFieldErrors_PlainError(t *testing.T) {
	errs := fieldErrors(os.ErrPermission)
	require.Len(t, errs, 1)
	assert.Empty(t, errs[0].Field)
	assert.Equal(t, os.ErrPermission.Error(), errs[0].Message)

	assert.Nil(t, fieldErrors(nil))
}

func TestCheck_JSONLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", sampleResult)
	writeFile(t, dir, "b.json", diacriticResult)

	res := runApp(t, NewCheckCmd(testFlags(t)).Register, "check", "--format", "jsonl", filepath.Join(dir, "*.json"))
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)

	var second fileReport
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, filepath.Join(dir, "b.json"), second.Path)
	assert.Equal(t, 1, second.Words)
}
