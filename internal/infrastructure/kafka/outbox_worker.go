package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	batchSize = 10
	// Событие, зависшее в processing дольше этого срока, возвращается в pending.
	staleAfterSeconds = 60
	waitTimeout       = 30 * time.Second
	reconnectBase     = 2 * time.Second
	reconnectMax      = time.Minute
)

// OutboxWorker переносит события из таблицы outbox в Kafka. Новые события приходят через
// LISTEN/NOTIFY, при простое таблица всё равно периодически опрашивается.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	dbConnStr string
	channel   string
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	channel string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
		channel:   channel,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.releaseStale(ctx)
		w.drain(ctx)
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

// releaseStale возвращает в очередь события, захваченные упавшим экземпляром.
func (w *OutboxWorker) releaseStale(ctx context.Context) {
	released, err := w.repo.ReleaseStale(ctx, staleAfterSeconds)
	if err != nil {
		w.logger.Warnf("release stale outbox events failed: %v", err)
		return
	}
	if released > 0 {
		w.logger.Infof("Released %d stale outbox events", released)
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return nil, e.Wrap("failed to connect for LISTEN", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+w.channel); err != nil {
		conn.Close(ctx)
		return nil, e.Wrap("failed to LISTEN", err)
	}

	w.logger.Infof("Subscribed to '%s' channel", w.channel)
	return conn, nil
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	// ctx отменяется и по Stop, чтобы прервать WaitForNotification
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	var conn *pgx.Conn
	defer func() {
		if conn != nil {
			conn.Close(context.Background())
		}
	}()

	for attempt := 0; ctx.Err() == nil; {
		if conn == nil {
			c, err := w.connect(ctx)
			if err != nil {
				w.logger.Warnf("Reconnect failed: %v", err)
				if !jitter.Sleep(ctx, jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)) {
					return
				}
				attempt++
				continue
			}
			conn, attempt = c, 0
			// пока соединения не было, уведомления могли потеряться
			w.drain(ctx)
		}

		waitCtx, waitCancel := context.WithTimeout(ctx, waitTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		waitCancel()

		switch {
		case err == nil:
			if notif.Channel == w.channel {
				w.logger.Debugf("Received outbox notification, draining outbox events")
				w.drain(ctx)
			}
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			w.releaseStale(ctx)
			w.drain(ctx)
		case ctx.Err() != nil:
			return
		default:
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(context.Background())
			conn = nil
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	handled := 0
	for _, event := range events {
		err := w.processEvent(ctx, event)
		switch {
		case err == nil:
			if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
				w.logger.Warnf("mark processed failed: %v", err)
			}
		case isRetryableError(err):
			// остаётся в processing, ReleaseStale вернёт его в очередь
			w.logger.Warnf("Temporary Kafka failure, will retry. event: %s, error: %v", event.EventID, err)
			continue
		default:
			w.logger.Errorf(err, "Permanent Kafka failure, event %s marked as failed", event.EventID)
			if err := w.repo.MarkAsFailed(ctx, event.ID); err != nil {
				w.logger.Warnf("mark failed failed: %v", err)
			}
		}
		handled++
	}

	// ни одно событие не ушло, брокер недоступен, ждём следующего цикла
	if handled == 0 {
		return false, nil
	}

	return len(events) == batchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	return w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.AggregateID, event.Payload))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
