package db

import (
	"testing"
	"testing/fstest"

	"github.com/sk4ndal-commits/UGCMarketPlace/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrationsOrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_files.up.sql":   {Data: []byte("CREATE TABLE b ();")},
		"0001_init.up.sql":    {Data: []byte("CREATE TABLE a ();")},
		"0001_init.down.sql":  {Data: []byte("DROP TABLE a;")},
		"README.md":           {Data: []byte("notes")},
		"archive/0000.up.sql": {Data: []byte("-- ignored")},
	}
	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "0001_init", list[0].Version)
	assert.Equal(t, "0002_files.up.sql", list[1].File)

	pending := Pending(list, map[string]bool{"0001_init": true})
	require.Len(t, pending, 1)
	assert.Equal(t, "0002_files", pending[0].Version)
}

func TestEmbeddedMigrations(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "0001_init", list[0].Version)
}
