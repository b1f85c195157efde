package usecase

import "context"

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// CartNotifier рассылает подписчикам сессии новое количество товаров в корзине.
type CartNotifier interface {
	Publish(sessionID string, totalQuantity int)
}

// TokenVerifier проверяет подпись и срок токена, выданного сервисом аутентификации.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}
