package migration

import (
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRun_SQLiteAutoMigrates(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Run(conn, "SQLite"))

	for _, table := range []string{"arot_settings", "transactions", "transaction_items", "receipt_sequences"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestRun_RequiresHandle(t *testing.T) {
	assert.Error(t, Run(nil, "postgres"))
	assert.Error(t, RunMigrations(nil, "postgres"))
}

func TestEmbeddedMigrationsPaired(t *testing.T) {
	for _, dialect := range []string{"postgres", "mysql"} {
		entries, err := fs.ReadDir(embeddedMigrations, "migrations/"+dialect)
		require.NoError(t, err)
		require.NotEmpty(t, entries, dialect)

		names := map[string]bool{}
		for _, e := range entries {
			names[e.Name()] = true
		}
		assert.True(t, names["000001_init.up.sql"], dialect)
		assert.True(t, names["000001_init.down.sql"], dialect)
	}
}
