// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/metrics"
)

const cloudName = "cloud"

// DefaultMaxObjectSize is the cloud object size ceiling (50 MiB).
const DefaultMaxObjectSize int64 = 50 << 20

// CloudConfig configures the S3-compatible backend.
type CloudConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool

	// MaxObjectSize rejects larger artifacts before upload. 0 means DefaultMaxObjectSize.
	MaxObjectSize int64

	// Circuit breaker tuning. Zero values use the defaults below.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// objectInfo is the subset of listing data the backend uses.
type objectInfo struct {
	Key  string
	Size int64
}

// objectStore is the bucket API CloudBackend needs. minioStore implements it
// against a real server; tests substitute an in-memory store.
type objectStore interface {
	BucketExists(ctx context.Context) (bool, error)
	MakeBucket(ctx context.Context) error
	MakePrivate(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Stat(ctx context.Context, key string) (objectInfo, error)
	List(ctx context.Context, prefix string) ([]objectInfo, error)
	Remove(ctx context.Context, key string) error
}

// CloudBackend stores artifacts in an object store bucket.
type CloudBackend struct {
	store   objectStore
	bucket  string
	maxSize int64
	cb      *gobreaker.CircuitBreaker[any]

	mu          sync.Mutex
	provisioned bool
}

// NewCloudBackend connects to the configured S3-compatible endpoint.
// The bucket is provisioned lazily on first use.
func NewCloudBackend(cfg CloudConfig) (*CloudBackend, error) {
	store, err := newMinioStore(cfg)
	if err != nil {
		return nil, err
	}
	return newCloudBackend(store, cfg), nil
}

func newCloudBackend(store objectStore, cfg CloudConfig) *CloudBackend {
	maxSize := cfg.MaxObjectSize
	if maxSize <= 0 {
		maxSize = DefaultMaxObjectSize
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := cfg.BreakerTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cbName := "cloud-storage"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	b := &CloudBackend{
		store:   store,
		bucket:  cfg.Bucket,
		maxSize: maxSize,
	}
	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Missing objects and oversized uploads are caller errors, not outages.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrTooLarge) ||
				errors.Is(err, ErrExists) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return b
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Name implements Backend.
func (b *CloudBackend) Name() string { return cloudName }

// execute runs fn through the circuit breaker. An open breaker surfaces as ErrUnavailable.
func (b *CloudBackend) execute(op, key string, fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.cb.Name(), metrics.OutcomeSuccess).Inc()
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.cb.Name(), metrics.OutcomeRejected).Inc()
		logging.Warn().Err(err).Str("op", op).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, unavailable(cloudName, op, key, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.cb.Name(), metrics.OutcomeFailure).Inc()
		return nil, err
	}
}

// ensureBucket creates the bucket as private if it does not exist. A failed
// attempt is retried on the next call.
func (b *CloudBackend) ensureBucket(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.provisioned {
		return nil
	}

	exists, err := b.store.BucketExists(ctx)
	if err != nil {
		return unavailable(cloudName, "provision", "", fmt.Errorf("check bucket %s: %w", b.bucket, err))
	}
	if !exists {
		if err := b.store.MakeBucket(ctx); err != nil {
			return unavailable(cloudName, "provision", "", fmt.Errorf("create bucket %s: %w", b.bucket, err))
		}
		if err := b.store.MakePrivate(ctx); err != nil {
			logging.Warn().Err(err).Str("bucket", b.bucket).Msg("Could not clear bucket policy; verify the bucket is private")
		}
		logging.Info().Str("bucket", b.bucket).Int64("max_object_size", b.maxSize).Msg("Created backup bucket")
	}
	b.provisioned = true
	return nil
}

// List implements Backend.
func (b *CloudBackend) List(ctx context.Context, prefix string) ([]ArtifactMeta, error) {
	res, err := b.execute("list", "", func() (any, error) {
		if err := b.ensureBucket(ctx); err != nil {
			return nil, err
		}
		objects, err := b.store.List(ctx, prefix)
		if err != nil {
			return nil, unavailable(cloudName, "list", "", err)
		}
		return objects, nil
	})
	if err != nil {
		return nil, err
	}

	objects, _ := res.([]objectInfo)
	artifacts := make([]ArtifactMeta, 0, len(objects))
	for _, obj := range objects {
		if strings.Contains(obj.Key, "/") {
			continue
		}
		if meta, ok := metaFromName(obj.Key, obj.Size); ok {
			artifacts = append(artifacts, meta)
		}
	}
	SortNewestFirst(artifacts)
	return artifacts, nil
}

// Write implements Backend.
func (b *CloudBackend) Write(ctx context.Context, filename string, data []byte) (ArtifactMeta, error) {
	parsed, err := ParseFilename(filename)
	if err != nil {
		return ArtifactMeta{}, opError(cloudName, "write", filename, err)
	}
	if int64(len(data)) > b.maxSize {
		return ArtifactMeta{}, opError(cloudName, "write", filename,
			fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), b.maxSize))
	}

	_, err = b.execute("write", filename, func() (any, error) {
		if err := b.ensureBucket(ctx); err != nil {
			return nil, err
		}
		if _, err := b.store.Stat(ctx, filename); err == nil {
			return nil, opError(cloudName, "write", filename, ErrExists)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, unavailable(cloudName, "write", filename, err)
		}
		if err := b.store.Put(ctx, filename, data); err != nil {
			return nil, unavailable(cloudName, "write", filename, err)
		}
		return nil, nil
	})
	if err != nil {
		return ArtifactMeta{}, err
	}

	return ArtifactMeta{
		Filename:  filename,
		Size:      int64(len(data)),
		CreatedAt: parsed.CreatedAt,
		Origin:    parsed.Origin,
	}, nil
}

// Read implements Backend.
func (b *CloudBackend) Read(ctx context.Context, filename string) ([]byte, error) {
	if _, err := ParseFilename(filename); err != nil {
		return nil, opError(cloudName, "read", filename, err)
	}

	res, err := b.execute("read", filename, func() (any, error) {
		if err := b.ensureBucket(ctx); err != nil {
			return nil, err
		}
		data, err := b.store.Get(ctx, filename)
		if errors.Is(err, ErrNotFound) {
			return nil, opError(cloudName, "read", filename, ErrNotFound)
		}
		if err != nil {
			return nil, unavailable(cloudName, "read", filename, err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	data, _ := res.([]byte)
	return data, nil
}

// Delete implements Backend. Object stores treat deleting a missing key as
// success, so the object is stat'ed first to report ErrNotFound.
func (b *CloudBackend) Delete(ctx context.Context, filename string) error {
	if _, err := ParseFilename(filename); err != nil {
		return opError(cloudName, "delete", filename, err)
	}

	_, err := b.execute("delete", filename, func() (any, error) {
		if err := b.ensureBucket(ctx); err != nil {
			return nil, err
		}
		if _, err := b.store.Stat(ctx, filename); errors.Is(err, ErrNotFound) {
			return nil, opError(cloudName, "delete", filename, ErrNotFound)
		} else if err != nil {
			return nil, unavailable(cloudName, "delete", filename, err)
		}
		if err := b.store.Remove(ctx, filename); err != nil {
			return nil, unavailable(cloudName, "delete", filename, err)
		}
		return nil, nil
	})
	return err
}
