package queue

import "encoding/json"

// Message is the payload sent to downstream queue consumers. StorageKey
// points at the original document bytes in the object store; the worker
// re-reads them there instead of carrying file content through the queue.
type Message struct {
	DocumentID   string `json:"documentId"`
	StorageKey   string `json:"storageKey"`
	Filename     string `json:"filename"`
	DocumentType string `json:"documentType,omitempty"`
	RequestID    string `json:"requestId"`
	EnqueuedAt   string `json:"enqueuedAt"`
	Version      int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
