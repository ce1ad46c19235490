package conf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/daddykotex/pdf-edit-bulk/journal"
	"github.com/daddykotex/pdf-edit-bulk/stamp"
	"github.com/daddykotex/pdf-edit-bulk/throttle"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newCore(t *testing.T, coreJSON string) *Core {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config", ".core.json"), coreJSON)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c := &Core{AppRoot: root, RootCtx: ctx, RootCancel: cancel}
	if err := c.LoadCoreConf(); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLoadCoreConf(t *testing.T) {
	c := newCore(t, `{
		"app_name": "bulk",
		"listen": "127.0.0.1:9000",
		"csv": {"identifier_field": "ID", "delimiter": ","},
		"throttle": {"burst": 5, "increment": 1, "period_sec": 10}
	}`)
	if c.AppName != "bulk" || c.Listen != "127.0.0.1:9000" {
		t.Errorf("unexpected core %+v", c)
	}
	if c.MaxUploadMB != DefaultMaxUploadMB || c.ShutdownTimeout() != DefaultShutdownTimeoutSec*time.Second {
		t.Errorf("defaults not applied: %d MB, %v", c.MaxUploadMB, c.ShutdownTimeout())
	}
	want := stamp.FieldNames{Identifier: "ID", Quantity: "quantity"}
	if d := cmp.Diff(want, c.CSV.FieldNames()); d != "" {
		t.Errorf("field names (-want +got):\n%s", d)
	}
	if c.Throttle.Window() != 50*time.Second {
		t.Errorf("window = %v", c.Throttle.Window())
	}
}

func TestTrustProxyHeaders(t *testing.T) {
	if h := newCore(t, `{}`).NewHandlers(); h.TrustProxyHeaders {
		t.Error("proxy headers trusted by default")
	}
	if h := newCore(t, `{"trust_proxy_headers": true}`).NewHandlers(); !h.TrustProxyHeaders {
		t.Error("trust_proxy_headers not passed to the handlers")
	}
}

func TestLoadCoreConfErrors(t *testing.T) {
	c := &Core{AppRoot: t.TempDir()}
	if err := c.LoadCoreConf(); err == nil || !strings.Contains(err.Error(), ".core.json") {
		t.Errorf("missing file: got %v", err)
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config", ".core.json"), `{"listen": 8080}`)
	c = &Core{AppRoot: root}
	if err := c.LoadCoreConf(); err == nil {
		t.Error("expected a decode error")
	}
}

func TestOptionalFeaturesDisabled(t *testing.T) {
	c := newCore(t, `{}`)
	if err := c.PrepareKVDatabase(); err != nil {
		t.Fatal(err)
	}
	if c.BackendKVDBClient != nil {
		t.Error("kv client without .kv-databases.json")
	}
	if err := c.PrepareSQLDatabases(); err != nil {
		t.Fatal(err)
	}
	if err := c.PrepareJournal(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Journal.(journal.Nop); !ok {
		t.Errorf("journal = %T, want journal.Nop", c.Journal)
	}
	c.PrepareThrottle()
	if _, ok := c.UploadLimiter.(throttle.Unlimited); !ok {
		t.Errorf("limiter = %T, want throttle.Unlimited", c.UploadLimiter)
	}
	if len(c.services) != 0 {
		t.Errorf("%d services registered", len(c.services))
	}
}

func TestUnsupportedKVType(t *testing.T) {
	c := newCore(t, `{}`)
	writeFile(t, c.confPath(".kv-databases.json"), `{"type": "memcached"}`)
	if err := c.PrepareKVDatabase(); err == nil {
		t.Error("expected an error for memcached")
	}
}

func TestUnsupportedSQLType(t *testing.T) {
	c := newCore(t, `{}`)
	writeFile(t, c.confPath(".sql-databases.json"), `{"journal": {"type": "sqlite"}}`)
	if err := c.PrepareSQLDatabases(); err == nil {
		t.Error("expected an error for sqlite")
	}
}

func TestMemoryThrottle(t *testing.T) {
	c := newCore(t, `{"throttle": {"burst": 2, "increment": 1, "period_sec": 60}}`)
	c.PrepareThrottle()
	if c.BucketStore == nil || len(c.services) != 1 {
		t.Fatalf("bucket store service not registered")
	}
	now := time.Now()
	for i, want := range []bool{true, true, false} {
		ok, err := c.UploadLimiter.Allow(context.Background(), "10.0.0.1", now)
		if err != nil {
			t.Fatal(err)
		}
		if ok != want {
			t.Errorf("request %d: allowed = %v, want %v", i+1, ok, want)
		}
	}
}

func TestTemplateOverride(t *testing.T) {
	c := newCore(t, `{}`)
	if err := c.PrepareHTMLTemplateStore(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.HTMLTemplateStore.Get("upload"); !ok {
		t.Fatal("built-in upload template missing")
	}

	writeFile(t, filepath.Join(c.AppRoot, "templates", "html", "upload.gohtml"), `custom {{.AppName}}`)
	if err := c.PrepareHTMLTemplateStore(); err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := c.HTMLTemplateStore.Render(&sb, "upload", struct{ AppName string }{"bulk"}); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "custom bulk" {
		t.Errorf("rendered %q, want the override", sb.String())
	}
}

type fakeService struct {
	name    string
	done    chan error
	started bool
	stopErr error
}

func (s *fakeService) Start() error { s.started = true; return nil }
func (s *fakeService) Stop()        { s.done <- s.stopErr }
func (s *fakeService) Done() <-chan error {
	return s.done
}
func (s *fakeService) Name() string { return s.name }

func TestServicesLifecycle(t *testing.T) {
	c := newCore(t, `{}`)
	a := &fakeService{name: "a", done: make(chan error, 1)}
	b := &fakeService{name: "b", done: make(chan error, 1), stopErr: errors.New("boom")}
	c.AddService(a)
	c.AddService(b)
	if err := c.StartServices(); err != nil {
		t.Fatal(err)
	}
	if !a.started || !b.started {
		t.Fatal("services not started")
	}
	c.StopServices()
	if err := c.WaitServicesDone(); err == nil || err.Error() != "boom" {
		t.Errorf("WaitServicesDone = %v, want boom", err)
	}
}

type pruningJournal struct {
	journal.Nop
	before time.Time
}

func (j *pruningJournal) Prune(_ context.Context, before time.Time) (int64, error) {
	j.before = before
	return 3, nil
}

func TestJournalRetention(t *testing.T) {
	c := newCore(t, `{"journal_retention_days": 30}`)
	c.Journal = journal.Nop{}
	c.PrepareJournalRetention()
	if c.JobScheduler != nil {
		t.Fatal("scheduler prepared for a journal that cannot prune")
	}

	j := &pruningJournal{}
	c.Journal = j
	c.PrepareJournalRetention()
	if c.JobScheduler == nil || len(c.JobScheduler.CronJobs()) != 1 {
		t.Fatal("retention job not scheduled")
	}
	job := c.JobScheduler.CronJobs()[0]
	if !job.Matches(time.Date(2026, 5, 4, 3, 17, 0, 0, time.Local)) {
		t.Error("retention job does not run at 03:17")
	}
	if err := job.Task(context.Background()); err != nil {
		t.Fatal(err)
	}
	age := time.Since(j.before)
	if age < 30*24*time.Hour || age > 30*24*time.Hour+time.Minute {
		t.Errorf("pruned before %v, want 30 days ago", j.before)
	}
}

func TestAdminCommands(t *testing.T) {
	c := newCore(t, `{"app_name": "bulk", "throttle": {"burst": 3}}`)
	j := &pruningJournal{}
	c.Journal = j
	c.PrepareThrottle()
	if err := c.PrepareHTMLTemplateStore(); err != nil {
		t.Fatal(err)
	}
	cmds := c.AdminCommands()
	ctx := context.Background()

	var out strings.Builder
	if err := cmds["status"].Fn(ctx, nil, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"bulk", "memory, 0 buckets", "ThrottleBucketStore"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status lacks %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := cmds["recent"].Fn(ctx, []string{"5"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "ID") {
		t.Errorf("recent output %q", out.String())
	}
	if err := cmds["recent"].Fn(ctx, []string{"x"}, &out); err == nil {
		t.Error("recent accepted a non-numeric limit")
	}

	writeFile(t, filepath.Join(c.AppRoot, "templates", "html", "upload.gohtml"), `reloaded`)
	out.Reset()
	if err := cmds["reload-templates"].Fn(ctx, nil, &out); err != nil {
		t.Fatal(err)
	}
	var page strings.Builder
	if err := c.HTMLTemplateStore.Render(&page, "upload", nil); err != nil {
		t.Fatal(err)
	}
	if page.String() != "reloaded" {
		t.Errorf("template not reloaded: %q", page.String())
	}
}
