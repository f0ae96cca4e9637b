package repository

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/callbacks"
	"gorm.io/gorm/logger"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/infra/database/models"
)

// newTestDB opens a file-backed sqlite store with one table per model.
// sqlite has no clock_timestamp() and drops row locks, so the tables are
// declared here rather than through the postgres migration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "filmpulse.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	// sqlite leaves RETURNING columns untyped, so defaults are read back by query
	createClauses := []string{"INSERT", "VALUES", "ON CONFLICT"}
	require.NoError(t, db.Callback().Create().Replace("gorm:create", callbacks.Create(&callbacks.Config{
		CreateClauses:        createClauses,
		LastInsertIDReversed: true,
	})))
	db.Callback().Create().Clauses = createClauses

	for _, model := range []any{
		&models.Account{},
		&models.Wallet{},
		&models.TokenAccount{},
		&models.CommitLog{},
	} {
		createTable(t, db, model)
	}
	return db
}

func createTable(t *testing.T, db *gorm.DB, model any) {
	t.Helper()

	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(model))

	columns := make([]string, 0, len(stmt.Schema.Fields))
	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" {
			continue
		}
		column := field.DBName + " " + sqliteType(field.IndirectFieldType)
		if field.PrimaryKey {
			column += " PRIMARY KEY"
		}
		switch {
		case field.DefaultValue == "clock_timestamp()":
			column += " DEFAULT CURRENT_TIMESTAMP"
		case field.DefaultValue != "":
			column += " DEFAULT " + field.DefaultValue
		}
		columns = append(columns, column)
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", stmt.Schema.Table, strings.Join(columns, ", "))
	require.NoError(t, db.Exec(ddl).Error)
}

func sqliteType(typ reflect.Type) string {
	switch {
	case typ == reflect.TypeOf(time.Time{}):
		return "DATETIME"
	case typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8:
		return "BLOB"
	case typ.Kind() == reflect.Bool:
		return "BOOLEAN"
	case typ.Kind() == reflect.String:
		return "TEXT"
	default:
		return "INTEGER"
	}
}

func testKey(b byte) filmpulse.Pubkey {
	var p filmpulse.Pubkey
	for i := range p {
		p[i] = b
	}
	return p
}

func seedWallet(t *testing.T, db *gorm.DB, wallet filmpulse.Pubkey, lamports uint64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Wallet{Address: wallet.String(), Lamports: lamports}).Error)
}

func walletBalance(t *testing.T, db *gorm.DB, wallet filmpulse.Pubkey) uint64 {
	t.Helper()
	var w models.Wallet
	err := db.Where("address = ?", wallet.String()).Take(&w).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return w.Lamports
}

// memCache is an in-process stand-in for memcached with Add/Set semantics.
type memCache struct {
	mu    sync.Mutex
	items map[string]memcache.Item
}

func newMemCache() *memCache {
	return &memCache{items: map[string]memcache.Item{}}
}

func (m *memCache) Get(key string) (*memcache.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return &item, nil
}

func (m *memCache) Add(item *memcache.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.Key]; ok {
		return memcache.ErrNotStored
	}
	m.items[item.Key] = *item
	return nil
}

func (m *memCache) Set(item *memcache.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.Key] = *item
	return nil
}

func (m *memCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(m.items, key)
	return nil
}
