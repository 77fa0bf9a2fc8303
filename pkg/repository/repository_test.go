package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/arot/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type fixture struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Kind  string
	Score int
}

func setupStore(t *testing.T) (Repository[fixture], *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&fixture{}))
	return ProvideStore[fixture](db), db
}

func TestStore_CreateFindOne(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &fixture{ID: 1, Name: "Rahim", Kind: "farmer"}))

	got, err := store.FindOne(ctx, &fixture{ID: 1})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Rahim", got.Name)

	missing, err := store.FindOne(ctx, &fixture{ID: 99})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_FindWithOptions(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	for i, name := range []string{"Karim", "karim", "Jabbar"} {
		require.NoError(t, store.Create(ctx, &fixture{ID: int64(i + 1), Name: name, Score: i * 10}))
	}

	rows, err := store.Find(ctx, nil,
		option.ApplyOperator(option.Condition{Field: "name", Operator: option.IEQ, Value: "KARIM"}),
		option.OrderBy(clause.OrderByColumn{Column: clause.Column{Name: "score"}, Desc: true}),
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].ID)

	rows, err = store.Find(ctx, nil,
		option.ApplyOperator(option.Condition{Field: "score", Operator: option.GTE, Value: 10}),
		option.WithLimit(1),
	)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	count, err := store.Count(ctx, &fixture{}, option.ApplyOperator(option.Condition{Field: "score", Operator: option.LT, Value: 20}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStore_UpdateSaveDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	row := &fixture{ID: 7, Name: "Hashem"}
	require.NoError(t, store.Create(ctx, row))

	n, err := store.Update(ctx, 7, map[string]any{"kind": "buyer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	row.Score = 5
	row.Kind = "buyer"
	require.NoError(t, store.Save(ctx, row))

	got, err := store.FindOne(ctx, &fixture{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, "buyer", got.Kind)

	require.NoError(t, store.Delete(ctx, 7))
	got, err = store.FindOne(ctx, &fixture{ID: 7})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_WithTrxRollsBack(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := store.WithTrx(tx).Create(ctx, &fixture{ID: 3, Name: "temp"}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	got, err := store.FindOne(ctx, &fixture{ID: 3})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSortByIgnoresUnknownColumns(t *testing.T) {
	_, db := setupStore(t)
	stmt := db.Session(&gorm.Session{DryRun: true})

	q := option.WithSortBy(option.WithQuerySortBy("name; DROP", "asc", map[string]bool{"name": true})).Apply(stmt.Model(&fixture{}))
	sql := q.Find(&[]fixture{}).Statement.SQL.String()
	assert.NotContains(t, sql, "DROP")
}
