package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried by ChangeMessage.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
	OpPayment = "payment"
)

// ChangeMessage is a lightweight notification that a collection record
// changed. Consumers fetch the current state themselves; the message only
// says what moved.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, op, id string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		Op:         op,
		ID:         id,
		Timestamp:  time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReminderMessage announces that a loan given out has hit its reminder date
// and still has an unpaid balance.
type ReminderMessage struct {
	LoanID       string    `json:"loanId"`
	BorrowerName string    `json:"borrowerName"`
	DueDate      string    `json:"dueDate"`
	Remaining    string    `json:"remaining"`
	Timestamp    time.Time `json:"timestamp"`
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
