// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
)

// TradeState represents the lifecycle state of a trade proposal.
type TradeState string

const (
	// TradeStateRequested indicates a pending trade proposal.
	TradeStateRequested TradeState = "requested"
	// TradeStateAccepted indicates a settled trade whose books changed owners. Terminal.
	TradeStateAccepted TradeState = "accepted"
	// TradeStateCancelled indicates a proposal cancelled by conflict resolution
	// or book deletion. Terminal.
	TradeStateCancelled TradeState = "cancelled"
)

// TradeDirection tags which side of a trade a book belongs to.
type TradeDirection string

const (
	// DirectionTo marks books the proposer is giving away.
	DirectionTo TradeDirection = "to"
	// DirectionFrom marks books the proposer is requesting from the counterparty.
	DirectionFrom TradeDirection = "from"
)

// Trade represents a proposed or completed bilateral exchange of books
// between exactly two users.
type Trade struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	State     TradeState  `gorm:"type:varchar(20);not null;default:'requested';index:idx_trades_state" json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Books     []TradeBook `gorm:"foreignKey:TradeID" json:"books,omitempty"`
}

// TableName specifies the table name for GORM
func (Trade) TableName() string {
	return "trades"
}

// IsTerminal reports whether the trade can no longer change state.
func (t *Trade) IsTerminal() bool {
	return t.State == TradeStateAccepted || t.State == TradeStateCancelled
}

// TradeBook links a book to one side of a trade. OwnerID records who owned
// the book when the proposal was made; the ownership swap on acceptance is
// computed from these recorded ids, not from live book rows.
type TradeBook struct {
	TradeID   uint           `gorm:"primaryKey;autoIncrement:false" json:"trade_id"`
	BookID    uint           `gorm:"primaryKey;autoIncrement:false;index:idx_trades_books_book" json:"book_id"`
	Direction TradeDirection `gorm:"type:varchar(4);not null" json:"direction"`
	OwnerID   uint           `gorm:"not null" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (TradeBook) TableName() string {
	return "trades_books"
}

// OwnersByDirection extracts the proposer ("to") and counterparty ("from")
// owner ids recorded on a trade's link rows. A well-formed trade records
// exactly one distinct owner per direction.
func OwnersByDirection(links []TradeBook) (toOwnerID, fromOwnerID uint, err error) {
	for _, link := range links {
		switch link.Direction {
		case DirectionTo:
			toOwnerID = link.OwnerID
		case DirectionFrom:
			fromOwnerID = link.OwnerID
		}
	}
	if toOwnerID == 0 || fromOwnerID == 0 {
		return 0, 0, fmt.Errorf("trade links missing a side (to=%d from=%d)", toOwnerID, fromOwnerID)
	}
	return toOwnerID, fromOwnerID, nil
}

// TakenBook identifies a counterparty book in a trade proposal request.
type TakenBook struct {
	ID      uint `json:"id"`
	OwnerID uint `json:"ownerId"`
}

// TradeRow is one flat row of the trade listing join
// (trades × trades_books × books × users).
type TradeRow struct {
	TradeID     uint           `json:"trade_id"`
	BookID      uint           `json:"book_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Direction   TradeDirection `json:"direction"`
	OwnerID     uint           `json:"owner_id"`
	Username    string         `json:"username"`
}

// TradeSideBook is a book entry inside one side of an aggregated trade.
type TradeSideBook struct {
	BookID      uint   `json:"bookId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TradeSide is one side of an aggregated trade: the owning user plus the
// books they put on the table.
type TradeSide struct {
	Username string          `json:"username"`
	OwnerID  uint            `json:"ownerId"`
	Books    []TradeSideBook `json:"books"`
}

// TradeSummary is the two-sided aggregate produced by folding TradeRows.
// A well-formed trade always has both sides populated.
type TradeSummary struct {
	TradeID uint       `json:"tradeId"`
	To      *TradeSide `json:"to,omitempty"`
	From    *TradeSide `json:"from,omitempty"`
}
