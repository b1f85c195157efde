package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/infrastructure"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	_ "golang.org/x/image/webp"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// object — подготовленный к загрузке объект бакета.
type object struct {
	key         string
	contentType string
	data        []byte
}

// MinioInfrastructure загружает изображения товаров в MinIO вместе с уменьшенным вариантом для каталога
// и подчищает уже загруженные объекты, если операция не удалась.
type MinioInfrastructure struct {
	imageRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewMinioInfrastructure(imageRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		imageRepo:   imageRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
	}
}

// UploadImages проверяет и загружает изображения товара. Для каждого файла в бакет кладутся оригинал
// и вариант шириной не больше CatalogWidth. Адрес каталожного варианта первого файла возвращается как ImageURL.
// При ошибке любой загрузки уже загруженные объекты удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"

	if len(req.Images) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	objects := make([]object, 0, 2*len(req.Images))
	for _, image := range req.Images {
		prepared, err := m.prepare(req.ProductID, image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		objects = append(objects, prepared...)
	}
	// вариант для каталога первого файла всегда второй по счёту
	imageURL := m.publicURL(objects[1].key)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		keys     = make([]string, 0, len(objects))
		firstErr error
	)
	sem := make(chan struct{}, max(m.cfg.UploadImagesLimit, 1))

	var uploadWg sync.WaitGroup
	for _, obj := range objects {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			contentType := obj.contentType
			size := int64(len(obj.data))
			key, err := m.imageRepo.Upload(ctx, domain.NewImage(uuid.NewString(), m.cfg.BucketName, obj.key, obj.data, &size, &contentType))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("upload %s failed: %w", obj.key, err)
				}
				cancel()
				return
			}
			keys = append(keys, key)
		}()
	}
	uploadWg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		m.CleanupImages(keys)
		return nil, e.Gateway(op, firstErr)
	}

	return usecase.NewUploadImagesRes(keys, imageURL), nil
}

// prepare проверяет файл и строит пару объектов: оригинал и вариант для каталога.
func (m *MinioInfrastructure) prepare(productID string, image usecase.ProductImage) ([]object, error) {
	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return nil, fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
	}
	if m.cfg.MaxImageSize > 0 && int64(len(image.Data)) > m.cfg.MaxImageSize {
		return nil, fmt.Errorf("%s: %w", image.Name, e.ErrFileTooLarge)
	}

	img, err := imaging.Decode(bytes.NewReader(image.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", image.Name, e.ErrUnsupportedMediaType)
	}
	if img.Bounds().Dx() > m.cfg.CatalogWidth && m.cfg.CatalogWidth > 0 {
		img = imaging.Resize(img, m.cfg.CatalogWidth, 0, imaging.Lanczos)
	}

	variant := infrastructure.VariantFormatFor(ext)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, variant.Format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", image.Name, err)
	}

	imageID := uuid.NewString()
	prefix := fmt.Sprintf("products/%s/%s", productID, imageID)
	return []object{
		{key: prefix + "." + ext, contentType: image.MimeType, data: image.Data},
		{key: prefix + "-catalog." + variant.Ext, contentType: variant.ContentType, data: buf.Bytes()},
	}, nil
}

func (m *MinioInfrastructure) publicURL(key string) string {
	return strings.TrimRight(m.cfg.PublicURL, "/") + "/" + key
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой между попытками.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.imageRepo.Delete(ctx, key)
			if err == nil {
				break
			}
			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
				break
			}
			if !jitter.Sleep(ctx, jitter.ExponentialBackoff(time.Second, 8*time.Second, attempt, jitter.DefaultJitter)) {
				m.logger.Warnf("%s: interrupted by shutdown, key=%s", op, key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
