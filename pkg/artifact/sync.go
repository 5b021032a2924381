package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/observability"
)

// SyncConfig holds the object-store location of the remote package index.
type SyncConfig struct {
	Bucket string
	Prefix string

	// Endpoint overrides the S3 endpoint (MinIO, localstack). Empty means
	// the default AWS endpoint for Region.
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Syncer mirrors the remote package index prefix into the local wheel
// directory so resolution and installs only ever touch local artifacts.
type Syncer struct {
	client  *s3.Client
	bucket  string
	prefix  string
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewSyncer creates an index syncer.
func NewSyncer(ctx context.Context, cfg SyncConfig, log *logrus.Logger) (*Syncer, error) {
	if log == nil {
		log = logrus.New()
	}

	var awsCfg aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		// Static credentials (MinIO or AWS with explicit keys)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		// Default credential chain (IAM roles, env vars, etc.)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Syncer{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.TrimPrefix(cfg.Prefix, "/"),
		log:    log,
	}, nil
}

// SetMetrics installs metrics collection on the syncer.
func (s *Syncer) SetMetrics(m *observability.Metrics) {
	s.metrics = m
}

// Sync mirrors the remote prefix into localDir: downloads new or changed
// objects, and deletes local files that no longer exist remotely.
func (s *Syncer) Sync(ctx context.Context, localDir string) error {
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return fmt.Errorf("failed to create local index directory: %w", err)
	}

	remote := make(map[string]int64)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list remote index: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}

			name := path.Base(key)
			remote[name] = aws.ToInt64(obj.Size)

			local := filepath.Join(localDir, name)
			if info, err := os.Stat(local); err == nil && info.Size() == aws.ToInt64(obj.Size) {
				s.metrics.ObserveSync("skip")
				continue
			}

			if err := s.download(ctx, key, local); err != nil {
				return err
			}
			s.metrics.ObserveSync("download")
			s.log.WithField("object", name).Debug("Downloaded index object")
		}
	}

	// Mirror deletions: anything local that the remote no longer has goes.
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return fmt.Errorf("failed to read local index directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := remote[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(localDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale artifact %s: %w", entry.Name(), err)
		}
		s.metrics.ObserveSync("delete")
		s.log.WithField("object", entry.Name()).Debug("Removed stale index object")
	}

	s.log.WithFields(logrus.Fields{
		"bucket":  s.bucket,
		"prefix":  s.prefix,
		"objects": len(remote),
	}).Info("Synced package index")
	return nil
}

func (s *Syncer) download(ctx context.Context, key, local string) error {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer result.Body.Close()

	f, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", local, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, result.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", local, err)
	}
	return nil
}
