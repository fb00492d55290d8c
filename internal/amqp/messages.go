package amqp

import (
	"encoding/json"
	"time"

	"fortuno/internal/core"
)

// TransactionMessage is published after a ledger entry commits. It carries
// the whole event so consumers never need a database connection.
type TransactionMessage struct {
	TransactionID int64     `json:"transaction_id"`
	ChatID        int64     `json:"chat_id"`
	Kind          string    `json:"kind"`
	AmountCents   int64     `json:"amount_cents"`
	Category      string    `json:"category"`
	BalanceCents  int64     `json:"balance_cents"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionMessage(chatID int64, e core.Entry, res core.RecordResult) *TransactionMessage {
	return &TransactionMessage{
		TransactionID: res.TransactionID,
		ChatID:        chatID,
		Kind:          string(e.Kind),
		AmountCents:   e.Signed().Cents,
		Category:      e.Category,
		BalanceCents:  res.Balance.Cents,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
