package quill

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/quill/docstore"
	"github.com/eringen/quill/journal"
	"github.com/eringen/quill/media"
)

// Config holds all configuration for a quill server.
type Config struct {
	Addr      string // Listen address (default ":4000")
	DataDir   string // Directory of the JSON documents (default "data")
	UploadDir string // Directory uploads are written to (default "<DataDir>/uploads")

	Storage docstore.Options // Document backend; Storage.Dir defaults to DataDir
	S3      media.S3Config   // Upload sink; used when S3.Endpoint is set

	LogMode     string // "development" (default) or "production"
	LogCapacity int    // Entries kept by the log journal (default 200)

	CORSOrigins []string // Allowed origins; empty allows any

	SiteName        string // Feed title (default "Quill")
	SiteURL         string // Canonical URL for feeds and sitemap (default "http://localhost:4000")
	SiteDescription string

	UploadRateLimit  int           // Uploads per client per window (default 30)
	UploadRateWindow time.Duration // default 1 minute

	BodyLimit string // Request body cap, Echo notation (default "20M")
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":4000"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(c.DataDir, "uploads")
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = docstore.DriverFile
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = c.DataDir
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.DataDir, "quill.db")
	}
	if c.LogMode == "" {
		c.LogMode = "development"
	}
	if c.LogCapacity <= 0 {
		c.LogCapacity = journal.DefaultCapacity
	}
	if c.SiteName == "" {
		c.SiteName = "Quill"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:4000"
	}
	if c.UploadRateLimit <= 0 {
		c.UploadRateLimit = 30
	}
	if c.UploadRateWindow <= 0 {
		c.UploadRateWindow = time.Minute
	}
	if c.BodyLimit == "" {
		c.BodyLimit = "20M"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithBackend replaces the document backend selected by Config.Storage. The
// App does not close a backend it was given.
func WithBackend(b docstore.Backend) Option {
	return func(a *App) {
		a.backend = b
	}
}

// WithLogger replaces the logger built from Config.LogMode.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithJournal replaces the journal built from Config.LogMode and
// Config.LogCapacity.
func WithJournal(j *journal.Journal) Option {
	return func(a *App) {
		a.Journal = j
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithSink replaces the upload sink selected by Config.S3.
func WithSink(s media.Sink) Option {
	return func(a *App) {
		a.sink = s
	}
}
