// Package mq carries fire-and-forget messages between the chain, workers and
// the gatekeeper.
package mq

import (
	"fmt"

	"pouw.net/core/common"
)

type Topic string

type OriginKind uint8

const (
	OriginPallet OriginKind = iota
	OriginWorker
	OriginGatekeeper
	OriginAccount
)

var originNames = []string{"pallet", "worker", "gatekeeper", "account"}

func (k OriginKind) String() string {
	if int(k) < len(originNames) {
		return originNames[k]
	}
	return "unknown"
}

// MessageOrigin identifies who produced a message.
type MessageOrigin struct {
	Kind OriginKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

func Pallet(name string) MessageOrigin {
	return MessageOrigin{Kind: OriginPallet, ID: name}
}

func Worker(pubkey string) MessageOrigin {
	return MessageOrigin{Kind: OriginWorker, ID: pubkey}
}

func Account(account string) MessageOrigin {
	return MessageOrigin{Kind: OriginAccount, ID: account}
}

func Gatekeeper() MessageOrigin {
	return MessageOrigin{Kind: OriginGatekeeper}
}

func (o MessageOrigin) IsWorker() bool {
	return o.Kind == OriginWorker
}

func (o MessageOrigin) IsGatekeeper() bool {
	return o.Kind == OriginGatekeeper
}

func (o MessageOrigin) String() string {
	if o.ID == "" {
		return o.Kind.String()
	}
	return fmt.Sprintf("%v/%v", o.Kind, o.ID)
}

// Message is one queued payload, msgpack encoded.
type Message struct {
	Sender      MessageOrigin `json:"sender"`
	Destination Topic         `json:"destination"`
	Payload     []byte        `json:"payload"`
}

// NewMessage encodes payload into a message.
func NewMessage(sender MessageOrigin, dest Topic, payload interface{}) (Message, error) {
	buf, err := common.ToMsgpack(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Sender: sender, Destination: dest, Payload: buf.Bytes()}, nil
}

// Decode unpacks the payload into v.
func (m Message) Decode(v interface{}) error {
	return common.FromMsgpack(m.Payload, v)
}
