package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"medialink/core/reconcile"
	"medialink/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no manifest exists for an entry.
var ErrNotFound = errors.New("manifest not found")

// Manifest is the published link state of one organize entry.
type Manifest struct {
	Entry       int                    `json:"entry"`
	PassID      string                 `json:"pass_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Links       []reconcile.LinkRecord `json:"links"`
}

// Service publishes manifests after every completed pass. It implements
// reconcile.Recorder; only finished passes produce uploads.
type Service struct {
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger

	mu          sync.Mutex
	bucketReady bool
}

var _ reconcile.Recorder = (*Service)(nil)

// NewService creates a manifest publisher.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: cfg.ManifestPrefix,
		logger: logger.With(zap.String("component", "manifest")),
	}
}

// ObjectName returns the object key of an entry's manifest.
func (s *Service) ObjectName(entry int) string {
	return storage.ObjectName(s.prefix, fmt.Sprintf("entry-%d.json", entry))
}

// RecordDecision implements reconcile.Recorder.
func (s *Service) RecordDecision(context.Context, int, reconcile.DecisionEvent) error { return nil }

// RecordRemoval implements reconcile.Recorder.
func (s *Service) RecordRemoval(context.Context, int, reconcile.LinkRecord) error { return nil }

// RecordPass uploads the entry's records.
func (s *Service) RecordPass(ctx context.Context, result reconcile.PassResult, records []reconcile.LinkRecord) error {
	return s.Publish(ctx, Manifest{
		Entry:       result.Entry,
		PassID:      result.PassID,
		GeneratedAt: result.StartedAt.Add(result.Duration).UTC(),
		Links:       records,
	})
}

// Publish writes m to object storage, creating the bucket on first use.
func (s *Service) Publish(ctx context.Context, m Manifest) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if m.Links == nil {
		m.Links = []reconcile.LinkRecord{}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	name := s.ObjectName(m.Entry)
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload manifest %s: %w", name, err)
	}

	s.logger.Info("Manifest published",
		zap.Int("entry", m.Entry),
		zap.String("object", name),
		zap.Int("links", len(m.Links)))
	return nil
}

// Get downloads the manifest of entry.
func (s *Service) Get(ctx context.Context, entry int) (*Manifest, error) {
	name := s.ObjectName(entry)
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate(err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", name, err)
	}
	return &m, nil
}

// List returns the object keys of all published manifests.
func (s *Service) List(ctx context.Context) ([]string, error) {
	prefix := storage.ObjectName(s.prefix, "")
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, translate(obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			names = append(names, obj.Key)
		}
	}
	return names, nil
}

// Prune removes manifests of entries at or beyond count, left behind when
// entries are dropped from the configuration.
func (s *Service) Prune(ctx context.Context, count int) ([]string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		keep[s.ObjectName(i)] = struct{}{}
	}

	var removed []string
	for _, name := range names {
		if _, ok := keep[name]; ok {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("remove manifest %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func (s *Service) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return err
	}
	s.bucketReady = true
	return nil
}

func translate(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return err
}
