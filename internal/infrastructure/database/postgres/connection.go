// Package postgres keeps the batch job ledger in PostgreSQL: connection
// pooling over pgx, embedded schema migrations and the job repository.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// DB is the subset of *pgxpool.Pool the package uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Config holds the database configuration.  The ledger is disabled when
// Host is empty.
type Config struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Database         string        `mapstructure:"database"`
	Username         string        `mapstructure:"username"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	// AutoMigrate applies pending migrations when a process connects.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Enabled reports whether a database host is configured.
func (c Config) Enabled() bool { return c.Host != "" }

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Database == "" {
		c.Database = "hbond"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConns == 0 {
		c.MaxConns = 10
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.StatementTimeout == 0 {
		c.StatementTimeout = 30 * time.Second
	}
}

// Validate checks the fields a connection needs.
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return errors.New(errors.ErrCodeValidation, "invalid configuration").WithDetail("database.host required")
	case c.Port < 1 || c.Port > 65535:
		return errors.New(errors.ErrCodeValidation, "invalid configuration").WithDetail("database.port out of range")
	case c.MinConns < 0 || c.MaxConns < 0 || (c.MaxConns > 0 && c.MinConns > c.MaxConns):
		return errors.New(errors.ErrCodeValidation, "invalid configuration").WithDetail("database.min_conns exceeds database.max_conns")
	}
	return nil
}

// DSN builds the postgres:// connection URL.  The statement timeout travels
// as a runtime parameter.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Database,
	}
	q := u.Query()
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	if c.StatementTimeout > 0 {
		q.Set("statement_timeout", strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Connection owns the pool.
type Connection struct {
	db     DB
	cfg    Config
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens a pool and pings it.  An unreachable server is
// ErrCodeUnavailable.
func NewConnection(ctx context.Context, cfg Config, log logging.Logger) (*Connection, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid database configuration")
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.ConnMaxLifetime
	pc.MaxConnIdleTime = cfg.ConnMaxIdleTime
	pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeUnavailable, "database connection failed")
	}

	log.Info("connected to postgres",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database))
	return &Connection{db: pool, cfg: cfg, logger: log}, nil
}

// NewConnectionWithDB wraps an existing DB.
func NewConnectionWithDB(db DB, log logging.Logger) *Connection {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Connection{db: db, logger: log}
}

// DB returns the underlying pool.
func (c *Connection) DB() DB { return c.db }

// Config returns the resolved configuration.
func (c *Connection) Config() Config { return c.cfg }

// HealthCheck pings the server and warns when the pool is nearly exhausted.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "database health check failed")
	}
	if pool, ok := c.db.(*pgxpool.Pool); ok {
		st := pool.Stat()
		if max := st.MaxConns(); max > 0 {
			usage := float64(st.AcquiredConns()) / float64(max)
			if usage > 0.8 {
				c.logger.Warn("high database pool usage",
					logging.Int("acquired", int(st.AcquiredConns())),
					logging.Int("max", int(max)),
					logging.Float64("usage", usage))
			}
		}
	}
	return nil
}

// Close releases the pool.  Safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.db.Close()
		c.logger.Info("closed postgres connection")
	})
}

// RunMigrations applies pending migrations to the connected database.
func (c *Connection) RunMigrations() error {
	version, dirty, err := Migrate(c.cfg.DSN())
	if err != nil {
		return err
	}
	c.logger.Info("database migrations complete",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty))
	return nil
}

//Personal.AI order the ending
