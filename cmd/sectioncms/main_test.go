package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenworks/sectioncms/internal/importer"
	"github.com/lumenworks/sectioncms/pkg/testsupport"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "ko"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"about.md":    "---\ntitle: About\n---\nWe build websites.\n",
		"ko/about.md": "---\ntitle: 소개\n---\n웹사이트를 만듭니다.\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	t.Setenv("SECTIONCMS_LOG_PROVIDER", "noop")
	t.Setenv("SECTIONCMS_LOCALES", "en,ko")

	out, err := run(t, "import", dir, "--dry-run", "--json")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	var result importer.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(result.PagesCreated) != 1 || result.PagesCreated[0] != "about" || result.SectionsCreated != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestMigrateCommandOnSQLite(t *testing.T) {
	t.Setenv("SECTIONCMS_LOG_PROVIDER", "noop")
	t.Setenv("SECTIONCMS_STORAGE_DRIVER", "sqlite")
	t.Setenv("SECTIONCMS_STORAGE_DSN", testsupport.MemoryDSN(t.Name()))

	out, err := run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "schema at version") || strings.Contains(out, "dirty=true") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMigrateCommandRejectsMemoryDriver(t *testing.T) {
	t.Setenv("SECTIONCMS_LOG_PROVIDER", "noop")

	if _, err := run(t, "migrate"); err == nil {
		t.Fatal("expected error on memory driver")
	}
}

func TestEnvCommandListsVariables(t *testing.T) {
	out, err := run(t, "env")
	if err != nil || !strings.Contains(out, "SECTIONCMS_HTTP_ADDR") {
		t.Fatalf("unexpected env output %q %v", out, err)
	}
}
