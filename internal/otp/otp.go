package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/validators"
)

const (
	codeDigits    = 6
	maxAttempts   = 5
	fieldHash     = "hash"
	fieldAttempts = "attempts"
	codeKeyPrefix = "otp:code:"
	rateKeyPrefix = "otp:rate:"
	resultSent    = "sent"
)

// Sender delivers a code out of band (SMS gateway, log in development).
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// ChallengeVerifier is the bot-check run before a code is sent.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token string) error
}

type Recorder interface {
	OTPRequest(result string)
}

type Config struct {
	TTL          time.Duration
	MaxPerWindow int
	Window       time.Duration
}

type Service struct {
	rdb      *redis.Client
	sender   Sender
	verifier ChallengeVerifier
	cfg      Config
	metrics  Recorder
	log      zerolog.Logger

	generate func() (string, error)
}

// NewService wires the OTP flow. A nil sender leaves phone sign-in
// unconfigured; a nil verifier skips the bot-check.
func NewService(
	rdb *redis.Client,
	sender Sender,
	verifier ChallengeVerifier,
	cfg Config,
	metrics Recorder,
	log zerolog.Logger,
) *Service {
	return &Service{
		rdb:      rdb,
		sender:   sender,
		verifier: verifier,
		cfg:      cfg,
		metrics:  metrics,
		log:      log,
		generate: randomCode,
	}
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func (s *Service) record(err error) {
	if s.metrics == nil {
		return
	}
	if err == nil {
		s.metrics.OTPRequest(resultSent)
		return
	}
	if code := httperr.CodeOf(err); code != "" {
		s.metrics.OTPRequest(code)
		return
	}
	s.metrics.OTPRequest("error")
}

// ===============================
// Request
// ===============================

// Request sends a fresh code to phone and returns the normalized number.
// A new request replaces any pending code.
func (s *Service) Request(ctx context.Context, rawPhone, challengeToken string) (phone string, err error) {
	defer func() { s.record(err) }()

	phone, ok := validators.NormalizePhone(rawPhone)
	if !ok {
		return "", httperr.ErrBusiness(httperr.CodeInvalidPhoneNumber)
	}
	if s.sender == nil {
		return "", httperr.ErrBusiness(httperr.CodeProviderConfiguration)
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, challengeToken); err != nil {
			s.log.Warn().Err(err).Str("phone", phone).Msg("otp challenge failed")
			return "", httperr.Wrap(httperr.CodeChallengeFailed, err)
		}
	}

	if err := s.consumeQuota(ctx, phone); err != nil {
		return "", err
	}

	code, err := s.generate()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	key := codeKeyPrefix + phone
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fieldHash, string(hash), fieldAttempts, 0)
	pipe.Expire(ctx, key, s.cfg.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		s.rdb.Del(ctx, key)
		return "", err
	}

	return phone, nil
}

func (s *Service) consumeQuota(ctx context.Context, phone string) error {
	key := rateKeyPrefix + phone

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, s.cfg.Window).Err(); err != nil {
			return err
		}
	}
	if s.cfg.MaxPerWindow > 0 && count > int64(s.cfg.MaxPerWindow) {
		return httperr.ErrBusiness(httperr.CodeRateLimited)
	}
	return nil
}

// ===============================
// Verify
// ===============================

// Verify checks code against the pending challenge and returns the normalized
// phone. The challenge is dropped on success or after maxAttempts misses.
func (s *Service) Verify(ctx context.Context, rawPhone, code string) (string, error) {
	phone, ok := validators.NormalizePhone(rawPhone)
	if !ok {
		return "", httperr.ErrBusiness(httperr.CodeInvalidPhoneNumber)
	}

	key := codeKeyPrefix + phone
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return "", err
	}
	hash, ok := vals[fieldHash]
	if !ok {
		return "", httperr.ErrBusiness(httperr.CodeNoPendingChallenge)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		attempts, err := s.rdb.HIncrBy(ctx, key, fieldAttempts, 1).Result()
		if err != nil {
			return "", err
		}
		if attempts >= maxAttempts {
			s.rdb.Del(ctx, key)
		}
		return "", httperr.ErrBusiness(httperr.CodeInvalidCode)
	}

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return phone, nil
}
