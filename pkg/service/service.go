// Package service defines the connected-service variants that make up the
// services list of a .bot configuration file, and the tag-dispatched
// decoder that turns raw service entries into concrete variants.
package service

import (
	"github.com/systmms/botcfg/pkg/encrypt"
)

// Kind discriminates the connected-service variants. It is the value of
// the "type" field on each service entry and is immutable once a service
// is constructed.
type Kind string

const (
	KindBot         Kind = "bot"
	KindAppInsights Kind = "appInsights"
	KindBlobStorage Kind = "blob"
	KindCosmosDB    Kind = "cosmosDB"
	KindDispatch    Kind = "dispatch"
	KindEndpoint    Kind = "endpoint"
	KindFile        Kind = "file"
	KindLuis        Kind = "luis"
	KindQnA         Kind = "qna"
	KindGeneric     Kind = "generic"
)

// ConnectedService is one entry in a bot file's services list.
//
// Each variant declares its own sensitive fields; Encrypt and Decrypt act
// on exactly those. A document is either fully plaintext or fully
// ciphertext: callers must alternate Encrypt and Decrypt exactly, since
// encrypting twice or decrypting a value this variant did not encrypt is
// not recoverable.
type ConnectedService interface {
	// Common returns the fields shared by every variant.
	Common() *Base

	// Encrypt replaces each sensitive field's plaintext with ciphertext.
	Encrypt(secret string) error

	// Decrypt reverses Encrypt under the same secret.
	Decrypt(secret string) error
}

// Base holds the fields every connected service carries. Type must be set
// to the variant's Kind when a service is constructed directly in code;
// Decode sets it from the entry's type tag.
type Base struct {
	Type Kind   `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Common implements ConnectedService.
func (b *Base) Common() *Base { return b }

// AzureBase adds the resource coordinates shared by services that live in
// an Azure subscription.
type AzureBase struct {
	Base
	TenantID       string `json:"tenantId,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
	ResourceGroup  string `json:"resourceGroup,omitempty"`
	ServiceName    string `json:"serviceName,omitempty"`
}

func encryptFields(secret string, fields ...*string) error {
	for _, field := range fields {
		value, err := encrypt.EncryptString(*field, secret)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}

func decryptFields(secret string, fields ...*string) error {
	for _, field := range fields {
		value, err := encrypt.DecryptString(*field, secret)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}
