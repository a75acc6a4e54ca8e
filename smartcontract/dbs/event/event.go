package event

import (
	"context"
	"errors"

	"gorm.io/gorm/clause"

	"pouw.net/smartcontract/common"
	"pouw.net/smartcontract/dbs/model"
)

type Event struct {
	model.ImmutableModel
	BlockNumber int64     `json:"block_number" gorm:"index"`
	TxHash      string    `json:"tx_hash" gorm:"index"`
	Type        EventType `json:"type"`
	Tag         EventTag  `json:"tag" gorm:"index"`
	Index       string    `json:"index" gorm:"index"`
	Data        string    `json:"data"`
}

func (edb *EventDb) FindEvents(ctx context.Context, search Event, p common.Pagination) ([]Event, error) {
	if edb == nil || edb.db == nil {
		return nil, ErrNoEventDb
	}

	if search.BlockNumber == 0 && len(search.TxHash) == 0 &&
		search.Type == TypeNone && search.Tag == TagNone && len(search.Index) == 0 {
		return nil, errors.New("no search field")
	}

	db := edb.db.WithContext(ctx).Model(&Event{})
	if search.BlockNumber != 0 {
		db = db.Where("block_number = ?", search.BlockNumber)
	}
	if len(search.TxHash) > 0 {
		db = db.Where("tx_hash = ?", search.TxHash)
	}
	if search.Type != TypeNone {
		db = db.Where("type = ?", search.Type)
	}
	if search.Tag != TagNone {
		db = db.Where("tag = ?", search.Tag)
	}
	if len(search.Index) > 0 {
		db = db.Where("\"index\" = ?", search.Index)
	}

	var events []Event
	err := db.Offset(p.Offset).
		Limit(p.Limit).
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: "id"},
			Desc:   p.IsDescending,
		}).
		Find(&events).Error
	return events, err
}

// GetEvents returns every event stored for a block in emission order.
func (edb *EventDb) GetEvents(ctx context.Context, block int64) ([]Event, error) {
	var events []Event
	if edb == nil || edb.db == nil {
		return events, ErrNoEventDb
	}
	result := edb.db.WithContext(ctx).
		Where("block_number = ?", block).
		Order("id").
		Find(&events)
	return events, result.Error
}
