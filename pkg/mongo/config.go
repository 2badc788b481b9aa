package mongo

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the connection settings for the session database.
type Config struct {
	Host            string        `env:"MONGODB_HOST" envDefault:"localhost"`          // Host is the database server hostname.
	Port            int           `env:"MONGODB_PORT" envDefault:"27017"`              // Port is the database server port.
	Username        string        `env:"MONGODB_USERNAME"`                             // Username is the authentication user. Empty disables authentication.
	Password        string        `env:"MONGODB_PASSWORD"`                             // Password is the authentication credential.
	AuthDatabase    string        `env:"MONGODB_AUTH_DATABASE" envDefault:"admin"`     // AuthDatabase is the database holding the user's credentials.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`     // ConnectTimeout is the timeout for connecting to the database.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`       // MaxPoolSize is the maximum number of connections in the connection pool.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`         // MinPoolSize is the minimum number of connections in the connection pool.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"` // MaxConnIdleTime is the maximum time that a connection can remain idle in the pool.
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`       // RetryWrites specifies whether to retry write operations.
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`        // RetryReads specifies whether to retry read operations.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`        // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`       // RetryInterval is the interval between retry attempts.
}

// ConnectionURI builds the mongodb:// URI from the discrete host, port and
// credential fields.
func (c Config) ConnectionURI() string {
	if c.Username == "" {
		return fmt.Sprintf("mongodb://%s:%d", c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%d/?authSource=%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.AuthDatabase),
	)
}
