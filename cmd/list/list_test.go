package list

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/library"
	"github.com/lokal-dev/lokal/internal/registry"
	"github.com/lokal-dev/lokal/internal/testutil"
	"github.com/lokal-dev/lokal/internal/testutil/cmdtest"
)

func TestListTable(t *testing.T) {
	ctx := cmdtest.NewContext(t)

	out, err := cmdtest.Execute(t, ctx, New(ctx))
	require.NoError(t, err)

	assert.Contains(t, out, "Available Templates")
	assert.Contains(t, out, "taupunkt")
	assert.Contains(t, out, "esp32_sht41")
	assert.Contains(t, out, "lokal generate --template")
}

func TestListJSON(t *testing.T) {
	ctx := cmdtest.NewContext(t)

	out, err := cmdtest.Execute(t, ctx, New(ctx), "--output", "json")
	require.NoError(t, err)

	var summaries []registry.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	assert.Len(t, summaries, len(ctx.Registry.List()))
	for _, s := range summaries {
		assert.NotEmpty(t, s.Name, s.ID)
		assert.Positive(t, s.Files, s.ID)
	}
}

func TestListRejectsUnknownFormat(t *testing.T) {
	ctx := cmdtest.NewContext(t)

	_, err := cmdtest.Execute(t, ctx, New(ctx), "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestListEmptyLibrary(t *testing.T) {
	ctx := cmdtest.NewContext(t)

	out, err := cmdtest.Execute(t, ctx, New(ctx), "--library")
	require.NoError(t, err)
	assert.Contains(t, out, "No templates in the library")
	assert.Contains(t, out, "lokal import --source")

	out, err = cmdtest.Execute(t, ctx, New(ctx), "--library", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestListLibrary(t *testing.T) {
	ctx := cmdtest.NewContext(t)
	testutil.WriteFiles(t, filepath.Join(ctx.Library.Root(), "web_app"), map[string]string{
		"index.html":    "<html></html>",
		"static/app.js": "",
	})
	require.NoError(t, os.WriteFile(filepath.Join(ctx.Library.Root(), "stray.txt"), nil, 0o644))

	out, err := cmdtest.Execute(t, ctx, New(ctx), "-l", "-o", "json")
	require.NoError(t, err)

	var entries []library.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []library.Entry{{Name: "web_app", Files: 2}}, entries)
}
