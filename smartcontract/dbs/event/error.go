package event

import (
	"gorm.io/gorm/clause"

	"pouw.net/smartcontract/common"
	"pouw.net/smartcontract/dbs/model"
)

// Error records a step that was rejected or aborted.
type Error struct {
	model.ImmutableModel
	TransactionID string `gorm:"index"`
	Error         string
}

func (edb *EventDb) GetErrorByTransactionHash(transactionID string, limit common.Pagination) ([]Error, error) {
	var transactionErrors []Error
	return transactionErrors, edb.db.Model(&Error{}).Offset(limit.Offset).Limit(limit.Limit).Order(clause.OrderByColumn{
		Column: clause.Column{Name: "id"},
		Desc:   limit.IsDescending,
	}).Where(Error{TransactionID: transactionID}).Find(&transactionErrors).Error
}
