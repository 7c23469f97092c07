package datastore

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	devenv "ssl-dataset/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config selects where datasets are mirrored: a local sqlite `File` or,
// when `Url` is set, a remote libsql database.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Config) Enabled() bool {
	return config.File != "" || config.Url != ""
}

func (config Config) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return openRemote(config.Url, config.AuthToken)
	}
	if config.File == "" {
		return nil, fmt.Errorf("neither a database file nor a url was specified")
	}
	return openFile(config.File)
}

func openRemote(dburl, authToken string) (*sql.DB, error) {
	if authToken == "" {
		return sql.Open("libsql", dburl)
	}
	parsed, err := url.Parse(dburl)
	if err != nil {
		return nil, err
	}
	query := parsed.Query()
	query.Set("authToken", authToken)
	parsed.RawQuery = query.Encode()
	return sql.Open("libsql", parsed.String())
}

func openFile(file string) (*sql.DB, error) {
	dbpath, err := devenv.ResolvePath(file)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(dbpath)
	if os.IsNotExist(statErr) {
		f, err := os.Create(dbpath)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// sqlite only allows one writer at a time
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
