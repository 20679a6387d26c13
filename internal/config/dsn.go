package config

import (
	"net"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DSNValue is the MySQL DSN for the blog database. An explicit DSN is used
// as-is; otherwise the driver formats one from the discrete fields, which
// normalizeDatabaseConfig has already defaulted. Entries in Params override
// the charset, parseTime and loc fields.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if c.DSN != "" {
		return c.DSN
	}

	m := mysql.NewConfig()
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	m.User = c.User
	m.Passwd = c.Password
	m.DBName = c.Name
	m.ParseTime = c.ParseTime
	m.Params = map[string]string{"charset": c.Charset}
	loc := c.Loc
	for k, v := range c.Params {
		switch k {
		case "parseTime":
			if b, err := strconv.ParseBool(v); err == nil {
				m.ParseTime = b
			}
		case "loc":
			loc = v
		default:
			m.Params[k] = v
		}
	}
	if l, err := time.LoadLocation(loc); err == nil {
		m.Loc = l
	}
	return m.FormatDSN()
}

// URLValue is the go-redis connection URL. An explicit URL is used as-is.
func (c RedisRuntimeConfig) URLValue() string {
	if c.URL != "" {
		return c.URL
	}
	u := &neturl.URL{
		Scheme: "redis",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(max(c.DB, 0)),
	}
	if c.TLS {
		u.Scheme = "rediss"
	}
	switch {
	case c.Password != "":
		u.User = neturl.UserPassword(c.Username, c.Password)
	case c.Username != "":
		u.User = neturl.User(c.Username)
	}
	return u.String()
}
