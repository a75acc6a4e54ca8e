package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"

	"pouw.net/chaincore/config"
	"pouw.net/core/logging"
)

var ErrNoEventDb = errors.New("cannot find event database")

type EventDb struct {
	db        *gorm.DB
	dbConfig  config.DbAccess
	mutex     *sync.RWMutex
	lastRound int64
}

func NewEventDb(access config.DbAccess) (*EventDb, error) {
	var dialector gorm.Dialector
	switch access.Driver {
	case "postgres":
		dialector = postgres.Open(access.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(access.DSN)
	default:
		return nil, fmt.Errorf("unsupported event db driver %q", access.Driver)
	}

	gl := zapgorm2.New(logging.Logger)
	gl.IgnoreRecordNotFoundError = true
	level := gormlogger.Silent
	if access.Debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gl.LogMode(level),
		SkipDefaultTransaction: true,
		CreateBatchSize:        50,
	})
	if err != nil {
		return nil, err
	}

	edb := newEventDb(db, access)
	if err := edb.AutoMigrate(); err != nil {
		return nil, err
	}
	return edb, nil
}

func newEventDb(db *gorm.DB, access config.DbAccess) *EventDb {
	return &EventDb{
		db:       db,
		dbConfig: access,
		mutex:    new(sync.RWMutex),
	}
}

func (edb *EventDb) Get() *gorm.DB {
	return edb.db
}

func (edb *EventDb) AutoMigrate() error {
	return edb.db.AutoMigrate(&Event{}, &Error{})
}

func (edb *EventDb) GetRound() int64 {
	edb.mutex.RLock()
	defer edb.mutex.RUnlock()
	return edb.lastRound
}

// AddEvents stores the events emitted while executing one block.
func (edb *EventDb) AddEvents(ctx context.Context, events []Event, round int64) error {
	edb.mutex.Lock()
	defer edb.mutex.Unlock()

	var errs []Error
	var rows []Event
	for _, e := range events {
		if e.Type == TypeError {
			errs = append(errs, Error{TransactionID: e.TxHash, Error: e.Data})
			continue
		}
		rows = append(rows, e)
	}

	err := edb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if len(errs) > 0 {
			if err := tx.Create(&errs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.Logger.Error("error saving block events",
			zap.Int64("block", round),
			zap.Int("events", len(events)),
			zap.Error(err))
		return err
	}
	edb.lastRound = round
	return nil
}

func (edb *EventDb) Close() {
	sqlDB, err := edb.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
