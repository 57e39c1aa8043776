package di_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lumenworks/sectioncms/internal/di"
	cmshttp "github.com/lumenworks/sectioncms/internal/http"
	"github.com/lumenworks/sectioncms/internal/menus"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/runtimeconfig"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
	"github.com/lumenworks/sectioncms/pkg/testsupport"
)

func TestContainerDefaultsToMemory(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "noop"

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() != nil || container.ResponseCache() != nil {
		t.Fatal("expected memory storage without cache")
	}
	if err := container.Migrate(); !errors.Is(err, di.ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}

	ctx := context.Background()
	page, err := container.PageService().Create(ctx, pages.CreatePageRequest{Key: "home", Slug: "/"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if list, _ := container.SectionService().ListByPage(ctx, page.ID); len(list) != 0 {
		t.Fatalf("expected no sections, got %d", len(list))
	}
	view, err := container.ContentResolver().GetPageContent(ctx, "home", "en")
	if err != nil || view.Page.Key != "home" {
		t.Fatalf("unexpected view %+v %v", view, err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "sqlite"

	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestContainerOpensAndMigratesSQLite(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "noop"
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = testsupport.MemoryDSN(t.Name())
	cfg.Storage.AutoMigrate = true

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if storage.DriverOf(container.DB()) != storage.DriverSQLite {
		t.Fatalf("expected sqlite database")
	}
	if _, err := container.MenuService().Create(context.Background(), menus.CreateMenuRequest{Key: "main"}); err != nil {
		t.Fatalf("create menu on migrated db: %v", err)
	}
	if err := container.Migrate(); err != nil {
		t.Fatalf("re-running migrations should be a no-op: %v", err)
	}
}

func TestContainerCachesNavigationInRedis(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "noop"
	cfg.Cache.Enabled = true
	cfg.Cache.RedisAddr = server.Addr()
	cfg.Cache.TTL = time.Minute

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	ctx := context.Background()
	if _, err := container.MenuService().Resolve(ctx, "main", "en"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if keys := server.Keys(); len(keys) != 1 {
		t.Fatalf("expected one cached navigation entry, got %v", keys)
	}
	if _, err := container.MenuService().Create(ctx, menus.CreateMenuRequest{Key: "main"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if keys := server.Keys(); len(keys) != 0 {
		t.Fatalf("expected admin write to invalidate navigation, got %v", keys)
	}
}

func TestContainerFailsWhenRedisUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.RedisAddr = addr

	if _, err := di.NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

func TestContainerUsesModuleLoggers(t *testing.T) {
	provider := &recordingProvider{}
	container, err := di.NewContainer(context.Background(), runtimeconfig.DefaultConfig(), di.WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, err := container.PageService().Create(context.Background(), pages.CreatePageRequest{Key: "home", Slug: "/"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	entry := provider.find("page.create.success")
	if entry == nil {
		t.Fatalf("expected page.create.success entry, got %#v", provider.entries)
	}
	if entry.fields["module"] != "cms.pages" {
		t.Fatalf("expected cms.pages module field, got %v", entry.fields["module"])
	}
	if provider.find("storage.configured") == nil {
		t.Fatal("expected storage.configured entry")
	}
}

func TestContainerServesAPI(t *testing.T) {
	container, err := di.NewContainer(context.Background(), runtimeconfig.DefaultConfig(), di.WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	req := httptest.NewRequest(http.MethodGet, "/api/sitemap", nil)
	rec := httptest.NewRecorder()
	container.API().Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get(cmshttp.RequestIDHeader) == "" {
		t.Fatalf("unexpected response %d %v", rec.Code, rec.Header())
	}
}

func TestContainerCommandLoggersNamedPerResource(t *testing.T) {
	provider := &recordingProvider{}
	container, err := di.NewContainer(context.Background(), runtimeconfig.DefaultConfig(), di.WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	page, err := container.PageService().Create(context.Background(), pages.CreatePageRequest{Key: "home", Slug: "/"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	routes := container.API().Routes()
	bulk := func(role, action string) int {
		body := strings.NewReader(`{"action":"` + action + `","ids":[` + strconv.FormatInt(page.ID, 10) + `]}`)
		req := httptest.NewRequest(http.MethodPost, "/admin/api/pages/bulk", body)
		req.Header.Set(cmshttp.RoleHeader, role)
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := bulk("ADMIN", "disable"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	entry := provider.find("command.execute.success")
	if entry == nil {
		t.Fatalf("expected command.execute.success entry, got %#v", provider.entries)
	}
	if entry.fields["module"] != "cms.commands.pages" || entry.fields["operation"] != "pages.bulk" {
		t.Fatalf("unexpected command log fields %v", entry.fields)
	}

	if code := bulk("EDITOR", "delete"); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	rejected := provider.find("command.execute.rejected")
	if rejected == nil || rejected.level != "warn" || rejected.fields["code"] != "PERMISSION_DENIED" {
		t.Fatalf("expected rejected warn entry, got %#v", rejected)
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for key, value := range l.fields {
		fields[key] = value
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.provider.record(recordedEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("trace", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("fatal", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }
