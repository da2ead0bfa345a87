package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newTestPersistence(t *testing.T) (Persistence, string) {
	dbPath := filepath.Join(t.TempDir(), "state", "altreg.db")
	p := NewPersistence(dbPath)
	require.NoError(t, p.Init())
	return p, dbPath
}

func TestPersistence_Init_CreatesParentDir(t *testing.T) {
	// GIVEN
	_, dbPath := newTestPersistence(t)

	// THEN
	info, err := os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPersistence_DeratingFactor(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)

	// WHEN
	_, errBefore := p.LoadDeratingFactor()
	err := p.SaveDeratingFactor(0.75)
	require.NoError(t, err)
	factor, err := p.LoadDeratingFactor()

	// THEN
	assert.ErrorIs(t, errBefore, os.ErrNotExist)
	assert.NoError(t, err)
	assert.Equal(t, 0.75, factor)
}

func TestPersistence_ModuleInfo(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	info := ModuleInfo{
		Address:  0x35,
		ModuleId: 0x1a2b,
		LastSeen: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	// WHEN
	require.NoError(t, p.SaveModuleInfo(info))
	loaded, err := p.LoadModuleInfo(0x35)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, info, loaded)

	_, err = p.LoadModuleInfo(0x36)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_DeleteModuleInfo(t *testing.T) {
	// GIVEN
	p, _ := newTestPersistence(t)
	require.NoError(t, p.SaveModuleInfo(ModuleInfo{Address: 0x35, ModuleId: 1}))

	// WHEN
	err := p.DeleteModuleInfo(0x35)
	assert.NoError(t, err)

	// THEN
	_, err = p.LoadModuleInfo(0x35)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, p.DeleteModuleInfo(0x35))
}

func TestPersistence_CorruptDataIsDropped(t *testing.T) {
	// GIVEN
	p, dbPath := newTestPersistence(t)
	db, err := bolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketSettings))
		if err != nil {
			return err
		}
		return b.Put([]byte(KeyDeratingFactor), []byte("not json"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// WHEN
	_, err = p.LoadDeratingFactor()

	// THEN
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = p.LoadDeratingFactor()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
