package capability

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/calram/skirmish/internal/dependencies/clock"
	"github.com/calram/skirmish/internal/dependencies/random"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/storage"
)

// Errors
var (
	ErrOwnerCapabilityExists = errors.New("player already has an ownership capability")
)

const (
	idAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength     = 12
	secretBytes  = 32
	tokenDivider = "."
)

// Service implements the capability model: issuing the two authorization
// tokens and performing the proof-of-possession check that gates every
// privileged operation. Authorization checks are pure; they never mutate
// state.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	hashKey []byte
}

// Config holds configuration for the capability service
type Config struct {
	// HashKey keys the digest of capability secrets at rest. Optional; an
	// empty key falls back to an unkeyed digest. Must be at most 64 bytes
	// and must stay stable across restarts when storage is persistent.
	HashKey []byte
}

// New creates a new capability Service. The hash key is validated here so a
// misconfigured key fails startup instead of silently weakening the digest.
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) (*Service, error) {
	if len(cfg.HashKey) > blake2b.Size {
		return nil, fmt.Errorf("capability hash key must be at most %d bytes, got %d", blake2b.Size, len(cfg.HashKey))
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		hashKey: cfg.HashKey,
	}, nil
}

// Mint builds a capability record and its one-time token without persisting
// either. The account service uses this to bundle capability creation into a
// single atomic save; there is no other way to obtain a valid token.
func (s *Service) Mint(kind model.CapabilityKind, playerID model.PlayerID, addr model.Address) (*model.Capability, string) {
	id := model.CapabilityID("cap_" + s.random.String(idLength, idAlphabet))
	secret := s.random.Token(secretBytes)

	record := &model.Capability{
		ID:           id,
		Kind:         kind,
		PlayerID:     playerID,
		BoundAddress: addr,
		SecretHash:   s.hashSecret(secret),
		CreatedAt:    s.clock.Now(),
	}

	return record, string(id) + tokenDivider + secret
}

// Issue mints and persists a capability, returning the token. Owner
// capabilities are unique per player; a second issue fails.
func (s *Service) Issue(ctx context.Context, kind model.CapabilityKind, playerID model.PlayerID, addr model.Address) (string, error) {
	if kind == model.CapabilityOwner {
		_, err := s.storage.GetOwnerCapability(ctx, playerID)
		if err == nil {
			return "", ErrOwnerCapabilityExists
		}
		if !errors.Is(err, model.ErrCapabilityNotFound) {
			return "", err
		}
	}

	record, token := s.Mint(kind, playerID, addr)
	if err := s.storage.SaveCapability(ctx, record); err != nil {
		return "", err
	}

	s.logger.Info("capability issued",
		slog.String("capability_id", string(record.ID)),
		slog.String("kind", string(kind)),
		slog.String("player_id", string(playerID)),
	)

	return token, nil
}

// AuthorizeOwner succeeds iff the token proves possession of the ownership
// capability for playerID and that capability is bound to the caller's
// address. Any mismatch fails with ErrUnauthorized; the check deliberately
// does not reveal which part failed.
func (s *Service) AuthorizeOwner(ctx context.Context, token string, caller model.Address, playerID model.PlayerID) error {
	record, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	if record.Kind != model.CapabilityOwner {
		return model.ErrUnauthorized
	}
	if record.PlayerID != playerID {
		return model.ErrUnauthorized
	}
	if record.BoundAddress != caller {
		return model.ErrUnauthorized
	}
	return nil
}

// AuthorizeAdmin succeeds iff the token proves possession of an
// administrative capability
func (s *Service) AuthorizeAdmin(ctx context.Context, token string) error {
	record, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	if record.Kind != model.CapabilityAdmin {
		return model.ErrUnauthorized
	}
	return nil
}

// verify parses the token, loads the record, and checks the secret digest in
// constant time
func (s *Service) verify(ctx context.Context, token string) (*model.Capability, error) {
	id, secret, ok := strings.Cut(token, tokenDivider)
	if !ok || id == "" || secret == "" {
		return nil, model.ErrUnauthorized
	}

	record, err := s.storage.GetCapability(ctx, model.CapabilityID(id))
	if err != nil {
		if errors.Is(err, model.ErrCapabilityNotFound) {
			return nil, model.ErrUnauthorized
		}
		return nil, err
	}

	digest := s.hashSecret(secret)
	if subtle.ConstantTimeCompare(digest, record.SecretHash) != 1 {
		return nil, model.ErrUnauthorized
	}

	return record, nil
}

func (s *Service) hashSecret(secret string) []byte {
	if len(s.hashKey) > 0 {
		// Key length is checked in New, so this cannot fail
		h, _ := blake2b.New256(s.hashKey)
		h.Write([]byte(secret))
		return h.Sum(nil)
	}
	sum := blake2b.Sum256([]byte(secret))
	return sum[:]
}
