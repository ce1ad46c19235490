package sqldb

import "time"

type Conf struct {
	Type string `json:"type"` // pgsql, mysql
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	PW   string `json:"pw"`
	DB   string `json:"db"`
	TZ   string `json:"tz"`  // Connection Timezone
	DSN  string `json:"dsn"` // To Overwrite Default DSN

	MaxConns           int `json:"max_conns"`
	ConnMaxLifetimeSec int `json:"conn_max_lifetime_sec"`
}

const (
	DefaultMaxConns        = 10
	DefaultConnMaxLifetime = 3 * time.Minute
)

func (c *Conf) PoolSize() int {
	if c.MaxConns > 0 {
		return c.MaxConns
	}
	return DefaultMaxConns
}

func (c *Conf) ConnMaxLifetime() time.Duration {
	if c.ConnMaxLifetimeSec > 0 {
		return time.Duration(c.ConnMaxLifetimeSec) * time.Second
	}
	return DefaultConnMaxLifetime
}
