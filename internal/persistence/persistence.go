package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/altreg/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSettings = "settings"
	BucketModules  = "modules"

	KeyDeratingFactor = "deratingFactor"
)

// ModuleInfo is the identity of a power module last seen at a bus address.
type ModuleInfo struct {
	Address  uint16    `json:"address"`
	ModuleId uint16    `json:"moduleId"`
	LastSeen time.Time `json:"lastSeen"`
}

type Persistence interface {
	Init() error

	LoadDeratingFactor() (float64, error)
	SaveDeratingFactor(factor float64) error

	LoadModuleInfo(address uint16) (ModuleInfo, error)
	SaveModuleInfo(info ModuleInfo) error
	DeleteModuleInfo(address uint16) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// LoadDeratingFactor returns the derating factor set by the operator, os.ErrNotExist if there is none
func (p persistence) LoadDeratingFactor() (float64, error) {
	var factor float64
	err := p.load(BucketSettings, KeyDeratingFactor, &factor)
	return factor, err
}

func (p persistence) SaveDeratingFactor(factor float64) error {
	return p.save(BucketSettings, KeyDeratingFactor, factor)
}

func (p persistence) LoadModuleInfo(address uint16) (ModuleInfo, error) {
	var info ModuleInfo
	err := p.load(BucketModules, moduleKey(address), &info)
	return info, err
}

func (p persistence) SaveModuleInfo(info ModuleInfo) error {
	return p.save(BucketModules, moduleKey(info.Address), info)
}

func (p persistence) DeleteModuleInfo(address uint16) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	key := moduleKey(address)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketModules))
		if b == nil {
			// no module bucket yet
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			// no data for given key
			return nil
		}

		return b.Delete([]byte(key))
	})
}

func moduleKey(address uint16) string {
	return fmt.Sprintf("0x%02x", address)
}

func (p persistence) save(bucket string, key string, value interface{}) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(key), data)
	})
}

func (p persistence) load(bucket string, key string, target interface{}) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	corrupt := false
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(key))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, target)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved data for %s/%s: %v", bucket, key, err)
			err := b.Delete([]byte(key))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", key, err)
			}
			corrupt = true
		}
		return nil
	})
	if err == nil && corrupt {
		return os.ErrNotExist
	}
	return err
}
