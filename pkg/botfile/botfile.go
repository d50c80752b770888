// Package botfile manages a bot's .bot configuration file: the document's
// connected services, the secret validator that protects their sensitive
// fields, and the load/save transactions that keep secrets encrypted at
// rest while the in-memory document stays directly usable plaintext.
package botfile

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/systmms/botcfg/pkg/service"
)

const (
	// FileExtension is the recognized configuration-file extension.
	FileExtension = ".bot"

	// Version is the fixed document schema version tag.
	Version = "2.0"
)

// Service ids are decimal strings drawn from [0, idSpace). After
// maxIDDraws colliding draws the allocator scans the space instead, so a
// nearly full registry still terminates.
const (
	idSpace    = 256
	maxIDDraws = 64
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Configuration is one bot's full configuration document.
//
// A Configuration is not safe for concurrent use; callers serialize
// access externally. Construct with New or Load rather than a literal, so
// the random source and version tag are in place.
type Configuration struct {
	Name        string
	Description string
	Services    []service.ConnectedService

	token    Token
	location string
	rng      *rand.Rand
}

// Option configures a Configuration at construction time.
type Option func(*Configuration)

// WithRand supplies the random source used for service id assignment.
// Tests pass a seeded source to make id allocation deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(c *Configuration) { c.rng = rng }
}

// New returns an empty plaintext document with no secret established and
// no bound location.
func New(opts ...Option) *Configuration {
	c := &Configuration{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Configuration) intN(n int) int {
	if c.rng != nil {
		return c.rng.IntN(n)
	}
	return rand.IntN(n)
}

// ConnectService appends svc to the document and returns the freshly
// assigned id. A pre-set id on svc only participates in the duplicate
// check; the stored id is always newly assigned.
func (c *Configuration) ConnectService(svc service.ConnectedService) (string, error) {
	if svc == nil {
		return "", fmt.Errorf("service to connect: %w", ErrMissingArgument)
	}
	for _, existing := range c.Services {
		if existing.Common().Type == svc.Common().Type && existing.Common().ID == svc.Common().ID {
			return "", fmt.Errorf("service %q of type %q: %w", svc.Common().ID, svc.Common().Type, ErrDuplicateService)
		}
	}
	id, err := c.assignID()
	if err != nil {
		return "", err
	}
	svc.Common().ID = id
	c.Services = append(c.Services, svc)
	return id, nil
}

// assignID draws short random ids, falling back to a scan of the id space
// once draws keep colliding. A genuinely full space is an explicit error
// rather than an unbounded retry loop.
func (c *Configuration) assignID() (string, error) {
	used := make(map[string]struct{}, len(c.Services))
	for _, svc := range c.Services {
		used[svc.Common().ID] = struct{}{}
	}
	for i := 0; i < maxIDDraws; i++ {
		id := strconv.Itoa(c.intN(idSpace))
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	for n := 0; n < idSpace; n++ {
		id := strconv.Itoa(n)
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("all %d service ids in use: %w", idSpace, ErrIDSpaceExhausted)
}

// FindService returns the service with the given id, in document order,
// or nil when there is no match.
func (c *Configuration) FindService(id string) service.ConnectedService {
	for _, svc := range c.Services {
		if svc.Common().ID == id {
			return svc
		}
	}
	return nil
}

// FindServiceByNameOrID returns the first service whose id or name equals
// key, in document order, or nil when there is no match.
func (c *Configuration) FindServiceByNameOrID(key string) service.ConnectedService {
	for _, svc := range c.Services {
		if svc.Common().ID == key || svc.Common().Name == key {
			return svc
		}
	}
	return nil
}

// DisconnectServiceByNameOrID removes and returns the first service
// matching key; it fails with ErrNotFound when nothing matches.
func (c *Configuration) DisconnectServiceByNameOrID(key string) (service.ConnectedService, error) {
	for i, svc := range c.Services {
		if svc.Common().ID == key || svc.Common().Name == key {
			c.Services = append(c.Services[:i], c.Services[i+1:]...)
			return svc, nil
		}
	}
	return nil, fmt.Errorf("service %q: %w", key, ErrNotFound)
}

// DisconnectService removes the service with the given id. Unlike
// DisconnectServiceByNameOrID, an absent id is a silent no-op.
func (c *Configuration) DisconnectService(id string) {
	for i, svc := range c.Services {
		if svc.Common().ID == id {
			c.Services = append(c.Services[:i], c.Services[i+1:]...)
			return
		}
	}
}

// document is the serialized shape; field order here is the field order
// in the written file.
type document struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Services    []service.ConnectedService `json:"services"`
	SecretKey   string                     `json:"secretKey"`
	Version     string                     `json:"version"`
}

type rawDocument struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Services    []jsoniter.RawMessage `json:"services"`
	SecretKey   string                `json:"secretKey"`
	Version     string                `json:"version"`
}

// wire returns the serialized shape of the document. The version tag is
// always the fixed Version constant, whatever the document was loaded
// with.
func (c *Configuration) wire() document {
	services := c.Services
	if services == nil {
		services = []service.ConnectedService{}
	}
	return document{
		Name:        c.Name,
		Description: c.Description,
		Services:    services,
		SecretKey:   c.token.Ciphertext(),
		Version:     Version,
	}
}

// MarshalJSON implements json.Marshaler.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// UnmarshalJSON implements json.Unmarshaler, dispatching each service
// entry to its typed decoder. One undecodable entry fails the whole
// document.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	services := make([]service.ConnectedService, 0, len(raw.Services))
	for _, entry := range raw.Services {
		svc, err := service.Decode(entry)
		if err != nil {
			return err
		}
		services = append(services, svc)
	}
	c.Name = raw.Name
	c.Description = raw.Description
	c.Services = services
	c.token = TokenFromCiphertext(raw.SecretKey)
	return nil
}

// clone deep-copies the document through its own codec. The copy shares
// no state with the original; location and random source do not carry
// over.
func (c *Configuration) clone() (*Configuration, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	dup := New()
	if err := dup.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return dup, nil
}
