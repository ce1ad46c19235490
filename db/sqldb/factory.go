package sqldb

import "fmt"

// ClientFactory is a callback that constructs a Client from Conf.
// Implementations register it from their init() and sqldb.New calls it.
type ClientFactory func(conf *Conf) (Client, error)

var registry = map[string]ClientFactory{}

func RegisterFactory(dbType string, factory ClientFactory) {
	registry[dbType] = factory
}

func New(conf *Conf) (Client, error) {
	if conf == nil {
		return nil, fmt.Errorf("sqldb: nil conf")
	}
	factory, ok := registry[conf.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %q (missing import of its impls package?)", conf.Type)
	}
	return factory(conf)
}
