package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

// ObjectStore is the narrow object-storage contract used for backups.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for S3: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object: %w", err)
	}
	return body, nil
}

// BackupService exports the menu-item table to object storage and
// imports a backup back through the dedup upsert, so restoring over
// existing data only adds missing rows.
type BackupService struct {
	db    *gorm.DB
	store ObjectStore
	menu  *MenuService
	log   *zap.SugaredLogger
}

func NewBackupService(db *gorm.DB, store ObjectStore, menu *MenuService, log *zap.SugaredLogger) *BackupService {
	return &BackupService{db: db, store: store, menu: menu, log: log}
}

// Export writes all menu items as a JSON document and returns the
// object key along with the exported row count.
func (b *BackupService) Export(ctx context.Context) (string, int, error) {
	items := []models.MenuItem{}
	if err := b.db.Order("date asc, dining_hall asc, meal asc, name asc").Find(&items).Error; err != nil {
		return "", 0, fmt.Errorf("failed to load menu items for export: %w", err)
	}

	body, err := json.Marshal(items)
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode backup: %w", err)
	}

	key := fmt.Sprintf("backups/menu-items-%s.json", time.Now().Format("20060102-150405"))
	if err := b.store.Put(ctx, key, body, "application/json"); err != nil {
		return "", 0, err
	}

	b.log.Infow("menu backup exported", "key", key, "items", len(items))
	return key, len(items), nil
}

// Import reads a backup object and inserts its rows, skipping any that
// already exist. Returns imported and skipped counts.
func (b *BackupService) Import(ctx context.Context, key string) (int64, int64, error) {
	if key == "" {
		return 0, 0, fmt.Errorf("%w: key is required", ErrValidation)
	}

	body, err := b.store.Get(ctx, key)
	if err != nil {
		return 0, 0, err
	}

	items := []models.MenuItem{}
	if err := json.Unmarshal(body, &items); err != nil {
		return 0, 0, fmt.Errorf("failed to decode backup: %w", err)
	}

	// Row identity comes from the natural key; stored primary keys are
	// not carried over.
	for i := range items {
		items[i].ID = 0
		items[i].CreatedAt = time.Time{}
	}

	imported, err := b.menu.UpsertMenuItems(items)
	if err != nil {
		return 0, 0, err
	}
	skipped := int64(len(items)) - imported

	b.log.Infow("menu backup imported", "key", key, "imported", imported, "skipped", skipped)
	return imported, skipped, nil
}
