package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("  select * from transactions"))
	assert.Equal(t, "INSERT", operationFromSQL("WITH x AS (SELECT 1) INSERT INTO t VALUES (1)"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "transactions", tableFromSQL(`SELECT * FROM "transactions" WHERE id = 1`))
	assert.Equal(t, "transaction_items", tableFromSQL("INSERT INTO transaction_items (id) VALUES (1)"))
	assert.Equal(t, "arot_settings", tableFromSQL("UPDATE `arot_settings` SET x = 1"))
	assert.Equal(t, "", tableFromSQL("BEGIN"))
}

func TestGormLoggerConfigFor(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLoggerConfigFor("debug").Level)
	assert.Equal(t, gormlogger.Warn, GormLoggerConfigFor("info").Level)
	assert.Equal(t, gormlogger.Silent, GormLoggerConfigFor("off").Level)
	assert.True(t, GormLoggerConfigFor("info").IgnoreRecordNotFound)
}
