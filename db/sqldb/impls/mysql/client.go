package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"

	_ "github.com/go-sql-driver/mysql" // side-effect: registers the "mysql" driver

	"github.com/daddykotex/pdf-edit-bulk/db/sqldb"
)

const DBType = "mysql"

func init() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

type Client struct {
	Handle // [Embedded] for Promoted Methods
	Conf   *sqldb.Conf

	db *sql.DB
}

// Ensure mysql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func (c *Client) Init(ctx context.Context) error {
	dsn := c.Conf.DSN
	if dsn == "" {
		tz := c.Conf.TZ
		if tz == "" {
			tz = "UTC"
		}
		dsn = fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=%s&sql_mode=ANSI_QUOTES",
			c.Conf.User,
			c.Conf.PW,
			c.Conf.Host,
			c.Conf.Port,
			c.Conf.DB,
			url.QueryEscape(tz),
		)
	}
	var err error
	if c.db, err = sql.Open("mysql", dsn); err != nil {
		return err
	}
	c.db.SetConnMaxLifetime(c.Conf.ConnMaxLifetime())
	c.db.SetMaxOpenConns(c.Conf.PoolSize())
	c.db.SetMaxIdleConns(c.Conf.PoolSize())
	c.Handle = Handle{q: c.db}
	if err = c.Ping(ctx); err != nil {
		return fmt.Errorf("mysql ping failed: %w", err)
	}
	log.Println("[INFO][SQL] mysql client initialized")
	return nil
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("mysql client not initialized")
	}
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return err
	}
	log.Println("[INFO][SQL] mysql client closed")
	return nil
}
