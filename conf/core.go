package conf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/daddykotex/pdf-edit-bulk/db"
	"github.com/daddykotex/pdf-edit-bulk/db/kvdb"
	"github.com/daddykotex/pdf-edit-bulk/db/kvdb/impls/redis"
	"github.com/daddykotex/pdf-edit-bulk/db/sqldb"
	_ "github.com/daddykotex/pdf-edit-bulk/db/sqldb/impls/mysql" // registers "mysql"
	_ "github.com/daddykotex/pdf-edit-bulk/db/sqldb/impls/pgsql" // registers "pgsql"
	"github.com/daddykotex/pdf-edit-bulk/journal"
	"github.com/daddykotex/pdf-edit-bulk/locks/keyonlylocks"
	"github.com/daddykotex/pdf-edit-bulk/routing"
	"github.com/daddykotex/pdf-edit-bulk/schedjobs"
	"github.com/daddykotex/pdf-edit-bulk/stamp"
	"github.com/daddykotex/pdf-edit-bulk/svc"
	"github.com/daddykotex/pdf-edit-bulk/throttle"
	"github.com/daddykotex/pdf-edit-bulk/tpl"
	"github.com/daddykotex/pdf-edit-bulk/uds"
	"github.com/daddykotex/pdf-edit-bulk/web"
)

const (
	DefaultMaxUploadMB        = 20
	DefaultShutdownTimeoutSec = 30

	// JournalDBName is the .sql-databases.json entry backing the merge journal
	JournalDBName = "journal"
	// UploadThrottleGroup is the bucket group of the upload routes
	UploadThrottleGroup = "upload"
)

// CSVConf selects the columns of the uploaded CSV
type CSVConf struct {
	IdentifierField string `json:"identifier_field"`
	QuantityField   string `json:"quantity_field"`
	Delimiter       string `json:"delimiter"`
}

func (c CSVConf) FieldNames() stamp.FieldNames {
	names := stamp.DefaultFieldNames
	if c.IdentifierField != "" {
		names.Identifier = c.IdentifierField
	}
	if c.QuantityField != "" {
		names.Quantity = c.QuantityField
	}
	return names
}

// Core - app config and lifecycle
type Core struct {
	AppName              string                        `json:"app_name"`
	Listen               string                        `json:"listen"` // HTTP Server Listen IP:PORT Address
	Host                 string                        `json:"host"`   // public host, informational
	MaxUploadMB          int64                         `json:"max_upload_mb"`
	CSV                  CSVConf                       `json:"csv"`
	Throttle             throttle.Conf                 `json:"throttle"`
	ShutdownTimeoutSec   int                           `json:"shutdown_timeout_sec"`
	AdminSocket          string                        `json:"admin_socket"`           // optional unix socket path
	JournalRetentionDays int                           `json:"journal_retention_days"` // 0 keeps entries forever
	TrustProxyHeaders    bool                          `json:"trust_proxy_headers"`    // client IP from X-Forwarded-For
	AppRoot              string                        `json:"-"`                      // Filled from flags
	RootCtx              context.Context               `json:"-"`                      // Global Context with RootCancel
	RootCancel           context.CancelFunc            `json:"-"`                      // CancelFunc for RootCtx
	UDSService           *uds.Service                  `json:"-"`                      // PrepareUDSService
	WebService           *web.Service                  `json:"-"`                      // PrepareWebService
	BucketStore          *throttle.BucketStore[string] `json:"-"`                      // PrepareThrottle, memory mode
	UploadLimiter        throttle.Limiter              `json:"-"`                      // PrepareThrottle
	KVDBConf             *kvdb.Conf                    `json:"-"`                      // PrepareKVDatabase
	BackendKVDBClient    kvdb.Client                   `json:"-"`                      // PrepareKVDatabase
	SQLDBConfs           map[string]*sqldb.Conf        `json:"-"`                      // PrepareSQLDatabases
	BackendSQLDBClients  map[string]sqldb.Client       `json:"-"`                      // PrepareSQLDatabases
	Journal              journal.Journal               `json:"-"`                      // PrepareJournal
	HTMLTemplateStore    *tpl.HTMLTemplateStore        `json:"-"`                      // PrepareHTMLTemplateStore
	JobScheduler         *schedjobs.Scheduler          `json:"-"`                      // PrepareJournalRetention
	MergeLocks           *keyonlylocks.Set             `json:"-"`                      // one merge in flight per client

	services []svc.Service // Services to Manage
	done     chan error
}

// BaseInit - 1st step for initialization
// 1. set AppRoot
// 2. load config/.core.json file
// 3. Start ShutdownSignalListener
func (c *Core) BaseInit(appRoot string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	c.AppRoot = appRoot
	c.RootCtx = rootCtx
	c.RootCancel = rootCancel
	if err := c.LoadCoreConf(); err != nil {
		return err
	}
	c.startShutdownSignalListener()
	return nil
}

// LoadCoreConf reads config/.core.json and fills the defaults
func (c *Core) LoadCoreConf() error {
	found, err := c.readConfFile(".core.json", c)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("missing %s", c.confPath(".core.json"))
	}
	if c.AppName == "" {
		c.AppName = "pdfbulk"
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = DefaultMaxUploadMB
	}
	if c.ShutdownTimeoutSec <= 0 {
		c.ShutdownTimeoutSec = DefaultShutdownTimeoutSec
	}
	return nil
}

func (c *Core) confPath(name string) string {
	return filepath.Join(c.AppRoot, "config", name)
}

// readConfFile decodes config/<name> into v.
// A missing file is not an error: found is false and v is untouched.
func (c *Core) readConfFile(name string, v any) (found bool, err error) {
	confBytes, err := os.ReadFile(c.confPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(confBytes, v); err != nil {
		return true, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

func (c *Core) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Core) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

func (c *Core) AddService(s svc.Service) {
	log.Printf("[INFO] adding service: %s", s.Name())
	c.services = append(c.services, s)
	log.Printf("[INFO] total services: %d", len(c.services))
}

func (c *Core) StartServices() error {
	c.done = make(chan error, len(c.services))
	for _, s := range c.services {
		err := s.Start()
		if err != nil {
			return fmt.Errorf("start %s: %w", s.Name(), err)
		}
		go func() {
			c.done <- <-s.Done()
		}()
	}
	return nil
}

// WaitServicesDone blocks until every service is done or one fails
func (c *Core) WaitServicesDone() error {
	for range c.services {
		if err := <-c.done; err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) StopServices() {
	for _, s := range c.services {
		s.Stop()
	}
}

var once sync.Once

func (c *Core) startShutdownSignalListener() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			log.Printf("[INFO] got signal [%s]. shutting down app [%s] ...", sig, c.AppName)
			c.RootCancel() // broadcast to all child services via Context.Done()
		}()
	})
	log.Printf("[INFO][CORE] shutdown signal listener started")
}

// PrepareKVDatabase connects the key-value database of .kv-databases.json, if any
func (c *Core) PrepareKVDatabase() error {
	var kvConf kvdb.Conf
	found, err := c.readConfFile(".kv-databases.json", &kvConf)
	if err != nil || !found {
		return err
	}
	c.KVDBConf = &kvConf
	switch kvConf.Type {
	case "redis":
		client := &redis.Client{Conf: c.KVDBConf}
		if err := client.Init(c.RootCtx); err != nil {
			return err
		}
		c.BackendKVDBClient = client
	// case "memcached"
	default:
		return fmt.Errorf("unsupported key-value database type %q", kvConf.Type)
	}
	return nil
}

// PrepareThrottle builds the upload limiter.
// With a key-value database the limit is shared between processes,
// otherwise buckets live in memory and a cleanup service is registered.
func (c *Core) PrepareThrottle() {
	if !c.Throttle.Enabled() {
		log.Println("[INFO][Throttle] uploads are not throttled")
		c.UploadLimiter = throttle.Unlimited{}
		return
	}
	if c.BackendKVDBClient != nil {
		c.UploadLimiter = &throttle.KVWindow{
			KV:     c.BackendKVDBClient,
			Group:  UploadThrottleGroup,
			Limit:  c.Throttle.Burst,
			Window: c.Throttle.Window(),
		}
		log.Printf("[INFO][Throttle] shared window limit=%d window=%v", c.Throttle.Burst, c.Throttle.Window())
		return
	}
	c.BucketStore = throttle.NewBucketStore[string](c.RootCtx, c.Throttle.CleanupCycle(), c.Throttle.CleanupOlderThan())
	c.BucketStore.SetBucketGroup(UploadThrottleGroup, c.Throttle.BucketConf())
	c.AddService(c.BucketStore)
	c.UploadLimiter = throttle.GroupLimiter{Store: c.BucketStore, Group: UploadThrottleGroup}
}

// PrepareSQLDatabases builds and connects every client of .sql-databases.json
func (c *Core) PrepareSQLDatabases() error {
	c.SQLDBConfs = make(map[string]*sqldb.Conf)
	c.BackendSQLDBClients = make(map[string]sqldb.Client)
	if _, err := c.readConfFile(".sql-databases.json", &c.SQLDBConfs); err != nil {
		return err
	}
	for dbName, sqlDBConf := range c.SQLDBConfs {
		dbClient, err := sqldb.New(sqlDBConf)
		if err != nil {
			return fmt.Errorf("sql database %q: %w", dbName, err)
		}
		if err = dbClient.Init(c.RootCtx); err != nil {
			return fmt.Errorf("sql database %q: %w", dbName, err)
		}
		c.BackendSQLDBClients[dbName] = dbClient
	}
	return nil
}

// PrepareJournal uses the "journal" SQL database when configured
// Prerequisite: PrepareSQLDatabases
func (c *Core) PrepareJournal() error {
	client, ok := c.BackendSQLDBClients[JournalDBName]
	if !ok {
		log.Println("[INFO][JOURNAL] no journal database, merges are not recorded")
		c.Journal = journal.Nop{}
		return nil
	}
	j, err := journal.NewSQL(c.RootCtx, client, client.GetConf().Type)
	if err != nil {
		return err
	}
	c.Journal = j
	return nil
}

// PrepareJournalRetention schedules a daily prune of old journal entries
// Prerequisite: PrepareJournal
func (c *Core) PrepareJournalRetention() {
	pruner, ok := c.Journal.(journal.Pruner)
	if !ok || c.JournalRetentionDays <= 0 {
		return
	}
	keep := time.Duration(c.JournalRetentionDays) * 24 * time.Hour
	c.JobScheduler = schedjobs.NewScheduler(c.RootCtx)
	c.JobScheduler.AddCronJob(schedjobs.NewDailyCronJob("journal-retention", 3, 17, pruneJournal(pruner, keep)))
	c.AddService(c.JobScheduler)
}

func pruneJournal(p journal.Pruner, keep time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := p.Prune(ctx, time.Now().Add(-keep))
		if err != nil {
			return err
		}
		log.Printf("[INFO][JOURNAL] pruned %d entries older than %v", n, keep)
		return nil
	}
}

// PrepareHTMLTemplateStore loads the built-in pages,
// then the overrides found in templates/html
func (c *Core) PrepareHTMLTemplateStore() error {
	c.HTMLTemplateStore = tpl.NewHTMLTemplateStore()
	if err := c.HTMLTemplateStore.LoadFS(web.DefaultTemplates(), "."); err != nil {
		return err
	}
	dir := filepath.Join(c.AppRoot, "templates", "html")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	return c.HTMLTemplateStore.LoadFS(os.DirFS(dir), ".")
}

// NewHandlers builds the web handlers from the prepared features
func (c *Core) NewHandlers() *web.Handlers {
	return &web.Handlers{
		AppName:          c.AppName,
		Engine:           stamp.NewEngine(),
		FieldNames:       c.CSV.FieldNames(),
		DefaultDelimiter: c.CSV.Delimiter,
		MaxUploadBytes:   c.MaxUploadBytes(),
		Journal:          c.Journal,
		Templates:        c.HTMLTemplateStore,

		TrustProxyHeaders: c.TrustProxyHeaders,
	}
}

// NewRouter wraps the upload routes with the body limit and the throttle
func (c *Core) NewRouter() http.Handler {
	if c.MergeLocks == nil {
		c.MergeLocks = &keyonlylocks.Set{}
	}
	var upload []routing.HandlerWrapper
	// two files plus the form fields
	upload = append(upload, routing.MaxBytes(2*c.MaxUploadBytes()+1<<20))
	upload = append(upload, routing.OnePerClient{Locks: c.MergeLocks})
	if c.UploadLimiter != nil {
		upload = append(upload, routing.Throttle{Limiter: c.UploadLimiter})
	}
	return web.NewRouter(c.NewHandlers(), upload...)
}

func (c *Core) PrepareWebService(addr string, router http.Handler) {
	c.WebService = web.NewService(c.RootCtx, addr, router)
	c.WebService.ShutdownTimeout = c.ShutdownTimeout()
	c.AddService(c.WebService)
}

func (c *Core) ResourceCleanUp() {
	log.Println("[INFO] App Resource Cleaning Up...")
	if c.BackendKVDBClient != nil {
		db.CloseClient("kv", c.BackendKVDBClient)
	}
	for name, sqlDBClient := range c.BackendSQLDBClients {
		db.CloseClient(sqlDBClient.GetConf().Type+":"+name, sqlDBClient)
	}
	log.Println("[INFO] App Resource Cleanup Complete")
}
