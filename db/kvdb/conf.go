package kvdb

import "strconv"

type Conf struct {
	Type      string `json:"type"` // redis
	Host      string `json:"host"`
	Port      int    `json:"port"`
	PW        string `json:"pw"`
	DB        int    `json:"db"`         // optional db number e.g. redis
	KeyPrefix string `json:"key_prefix"` // namespace for every key this app writes
}

func (c *Conf) Addr() string {
	port := c.Port
	if port == 0 {
		port = 6379
	}
	return c.Host + ":" + strconv.Itoa(port)
}
