package clickhouse

import (
	"fmt"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
)

// ClientConfig describes how to reach the analytics database that archives
// fetched records and received alerts.
type ClientConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	MaxExecTime     time.Duration

	UseHTTP      bool
	AsyncInsert  bool
	WaitForAsync bool

	// ConnectAttempts bounds the startup ping loop; the database container
	// often comes up after the API.
	ConnectAttempts int
	ConnectDelay    time.Duration
}

type ClientOption func(*ClientConfig)

func defaultConfig() *ClientConfig {
	return &ClientConfig{
		Port:            9000,
		Database:        "marketpulse",
		User:            "default",
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxLifetime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     10 * time.Second,
		ConnectAttempts: 3,
		ConnectDelay:    time.Second,
	}
}

func WithAddress(host string, port int) ClientOption {
	return func(c *ClientConfig) {
		c.Host = host
		if port > 0 {
			c.Port = port
		}
	}
}

func WithDatabase(database string) ClientOption {
	return func(c *ClientConfig) { c.Database = database }
}

func WithCredentials(user, password string) ClientOption {
	return func(c *ClientConfig) { c.User, c.Password = user, password }
}

// WithTimeouts overrides the dial and read timeouts; zero keeps the default.
func WithTimeouts(dial, read time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if dial > 0 {
			c.DialTimeout = dial
		}
		if read > 0 {
			c.ReadTimeout = read
		}
	}
}

// WithHTTP switches from the native protocol to HTTP (port 8123 usually).
func WithHTTP(useHTTP bool) ClientOption {
	return func(c *ClientConfig) { c.UseHTTP = useHTTP }
}

// WithAsyncInsert lets the server buffer small archive inserts.
func WithAsyncInsert(enabled, wait bool) ClientOption {
	return func(c *ClientConfig) { c.AsyncInsert, c.WaitForAsync = enabled, wait }
}

func WithMaxExecutionTime(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.MaxExecTime = d }
}

func WithConnectRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if attempts > 0 {
			c.ConnectAttempts = attempts
		}
		if delay > 0 {
			c.ConnectDelay = delay
		}
	}
}

func (c *ClientConfig) options() *ch.Options {
	settings := ch.Settings{}
	if c.MaxExecTime > 0 {
		settings["max_execution_time"] = int(c.MaxExecTime.Seconds())
	}
	if c.AsyncInsert {
		settings["async_insert"] = 1
		settings["wait_for_async_insert"] = boolSetting(c.WaitForAsync)
	}

	o := &ch.Options{
		Addr:     []string{fmt.Sprintf("%s:%d", c.Host, c.Port)},
		Protocol: ch.Native,
		Auth: ch.Auth{
			Database: c.Database,
			Username: c.User,
			Password: c.Password,
		},
		Settings:    settings,
		DialTimeout: c.DialTimeout,
		ReadTimeout: c.ReadTimeout,
	}
	if c.UseHTTP {
		o.Protocol = ch.HTTP
	}
	return o
}

func boolSetting(b bool) int {
	if b {
		return 1
	}
	return 0
}
