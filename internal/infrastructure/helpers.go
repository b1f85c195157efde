package infrastructure

import (
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/disintegration/imaging"
)

// GetExtensionFromMIME возвращает расширение файла по MIME-типу изображения.
// Поддерживает jpeg, jpg, png, webp. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}

// VariantFormat задаёт формат, в котором хранится уменьшенный вариант изображения.
type VariantFormat struct {
	Format      imaging.Format
	Ext         string
	ContentType string
}

// VariantFormatFor выбирает формат варианта по расширению оригинала. PNG остаётся PNG
// (прозрачность), остальное пишется в JPEG: webp imaging кодировать не умеет.
func VariantFormatFor(ext string) VariantFormat {
	if ext == "png" {
		return VariantFormat{Format: imaging.PNG, Ext: "png", ContentType: "image/png"}
	}
	return VariantFormat{Format: imaging.JPEG, Ext: "jpg", ContentType: "image/jpeg"}
}
