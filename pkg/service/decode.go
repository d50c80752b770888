package service

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// ErrUnknownServiceType is returned when a service entry carries no type
// tag, or one outside the recognized set. It fails the whole document
// decode; there is no fallback variant and no best-effort skip.
var ErrUnknownServiceType = errors.New("unknown service type")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// decoders maps each recognized type tag to its concrete decoder. Adding a
// variant means adding exactly one entry here.
var decoders = map[Kind]func(raw []byte) (ConnectedService, error){
	KindBot:         func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &Bot{}) },
	KindAppInsights: func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &AppInsights{}) },
	KindBlobStorage: func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &BlobStorage{}) },
	KindCosmosDB:    func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &CosmosDB{}) },
	KindDispatch:    func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &Dispatch{}) },
	KindEndpoint:    func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &Endpoint{}) },
	KindFile:        func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &File{}) },
	KindLuis:        func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &Luis{}) },
	KindQnA:         func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &QnA{}) },
	KindGeneric:     func(raw []byte) (ConnectedService, error) { return decodeInto(raw, &Generic{}) },
}

func decodeInto(raw []byte, svc ConnectedService) (ConnectedService, error) {
	if err := json.Unmarshal(raw, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Decode constructs the concrete variant named by the raw entry's type
// tag.
func Decode(raw []byte) (ConnectedService, error) {
	tag := gjson.GetBytes(raw, "type")
	if !tag.Exists() || tag.String() == "" {
		return nil, fmt.Errorf("service entry without a type tag: %w", ErrUnknownServiceType)
	}
	decode, ok := decoders[Kind(tag.String())]
	if !ok {
		return nil, fmt.Errorf("service type %q: %w", tag.String(), ErrUnknownServiceType)
	}
	return decode(raw)
}
