package service

import (
	"github.com/systmms/botcfg/pkg/encrypt"
)

// Bot describes the Azure Bot Service registration itself. It carries no
// secrets; the appId is public.
type Bot struct {
	AzureBase
	AppID string `json:"appId,omitempty"`
}

func (s *Bot) Encrypt(string) error { return nil }
func (s *Bot) Decrypt(string) error { return nil }

// AppInsights describes an Application Insights analytics resource.
type AppInsights struct {
	AzureBase
	InstrumentationKey string            `json:"instrumentationKey"`
	ApplicationID      string            `json:"applicationId,omitempty"`
	APIKeys            map[string]string `json:"apiKeys,omitempty"`
}

func (s *AppInsights) Encrypt(secret string) error {
	return encryptFields(secret, &s.InstrumentationKey)
}

func (s *AppInsights) Decrypt(secret string) error {
	return decryptFields(secret, &s.InstrumentationKey)
}

// BlobStorage describes an Azure Blob storage account and container.
type BlobStorage struct {
	AzureBase
	ConnectionString string `json:"connectionString"`
	Container        string `json:"container,omitempty"`
}

func (s *BlobStorage) Encrypt(secret string) error {
	return encryptFields(secret, &s.ConnectionString)
}

func (s *BlobStorage) Decrypt(secret string) error {
	return decryptFields(secret, &s.ConnectionString)
}

// CosmosDB describes a Cosmos DB database and collection.
type CosmosDB struct {
	AzureBase
	Endpoint   string `json:"endpoint,omitempty"`
	Key        string `json:"key"`
	Database   string `json:"database,omitempty"`
	Collection string `json:"collection,omitempty"`
}

func (s *CosmosDB) Encrypt(secret string) error {
	return encryptFields(secret, &s.Key)
}

func (s *CosmosDB) Decrypt(secret string) error {
	return decryptFields(secret, &s.Key)
}

// Endpoint describes a messaging endpoint the bot can be reached at.
type Endpoint struct {
	Base
	AppID       string `json:"appId,omitempty"`
	AppPassword string `json:"appPassword"`
	Endpoint    string `json:"endpoint,omitempty"`
}

func (s *Endpoint) Encrypt(secret string) error {
	return encryptFields(secret, &s.AppPassword)
}

func (s *Endpoint) Decrypt(secret string) error {
	return decryptFields(secret, &s.AppPassword)
}

// File references a local file shipped alongside the bot.
type File struct {
	Base
	Path string `json:"path,omitempty"`
}

func (s *File) Encrypt(string) error { return nil }
func (s *File) Decrypt(string) error { return nil }

// Luis describes a LUIS language-understanding application.
type Luis struct {
	Base
	AppID           string `json:"appId,omitempty"`
	AuthoringKey    string `json:"authoringKey"`
	SubscriptionKey string `json:"subscriptionKey"`
	Version         string `json:"version,omitempty"`
	Region          string `json:"region,omitempty"`
}

func (s *Luis) Encrypt(secret string) error {
	return encryptFields(secret, &s.AuthoringKey, &s.SubscriptionKey)
}

func (s *Luis) Decrypt(secret string) error {
	return decryptFields(secret, &s.AuthoringKey, &s.SubscriptionKey)
}

// Dispatch is a LUIS application that routes across other connected
// services. ServiceIDs holds references, by id, into the same document's
// services list; the referenced services are not owned by this entry.
type Dispatch struct {
	Luis
	ServiceIDs []string `json:"serviceIds"`
}

// QnA describes a QnA Maker knowledge base.
type QnA struct {
	Base
	KbID            string `json:"kbId,omitempty"`
	SubscriptionKey string `json:"subscriptionKey"`
	EndpointKey     string `json:"endpointKey"`
	Hostname        string `json:"hostname,omitempty"`
}

func (s *QnA) Encrypt(secret string) error {
	return encryptFields(secret, &s.SubscriptionKey, &s.EndpointKey)
}

func (s *QnA) Decrypt(secret string) error {
	return decryptFields(secret, &s.SubscriptionKey, &s.EndpointKey)
}

// Generic describes an arbitrary external endpoint. Every value in its
// configuration map is treated as sensitive.
type Generic struct {
	Base
	URL           string            `json:"url,omitempty"`
	Configuration map[string]string `json:"configuration,omitempty"`
}

func (s *Generic) Encrypt(secret string) error {
	for key, value := range s.Configuration {
		ciphertext, err := encrypt.EncryptString(value, secret)
		if err != nil {
			return err
		}
		s.Configuration[key] = ciphertext
	}
	return nil
}

func (s *Generic) Decrypt(secret string) error {
	for key, value := range s.Configuration {
		plaintext, err := encrypt.DecryptString(value, secret)
		if err != nil {
			return err
		}
		s.Configuration[key] = plaintext
	}
	return nil
}
