package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MagIntel/internal/domain/models"
	domrepo "MagIntel/internal/domain/repository"
	"MagIntel/pkg/cache"
	pkgkafka "MagIntel/pkg/kafka"
	xutil "MagIntel/pkg/util"
)

// KafkaBarsHandler consumes daily bar messages and writes them to storage.
// A message is either one bar object or a JSON array of bars (backfill
// batches). Successful writes invalidate cached evidence, which is stale the
// moment new bars land.
type KafkaBarsHandler struct {
	topic   string
	bars    domrepo.BarWriter
	cache   cache.Service
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, bars domrepo.BarWriter, cacheSvc cache.Service, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, bars: bars, cache: cacheSvc, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema: {ticker, trade_date, adj_close}
type barMessage struct {
	Ticker    string  `json:"ticker"`
	TradeDate string  `json:"trade_date"`
	AdjClose  float64 `json:"adj_close"`
}

func (h *KafkaBarsHandler) toBar(m barMessage) (*models.PricePoint, error) {
	if m.Ticker == "" {
		h.metrics.RecordError("consumer_bad_bar")
		return nil, fmt.Errorf("bar message missing ticker")
	}
	date, ok := xutil.ParseTradeDate(m.TradeDate)
	if !ok {
		h.metrics.RecordError("consumer_bad_bar")
		return nil, fmt.Errorf("bar message bad trade_date %q", m.TradeDate)
	}
	if m.AdjClose <= 0 {
		h.metrics.RecordError("consumer_bad_bar")
		return nil, fmt.Errorf("bar message bad adj_close %v", m.AdjClose)
	}
	return &models.PricePoint{Ticker: m.Ticker, TradeDate: date, AdjClose: m.AdjClose}, nil
}

func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		return h.handleBatch(ctx, trimmed)
	}

	var m barMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	bar, err := h.toBar(m)
	if err != nil {
		return err
	}

	start := time.Now()
	err = h.bars.StoreBar(ctx, bar)
	h.metrics.RecordLatency("bar_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLastClose(bar.Ticker, bar.AdjClose)
	h.invalidateEvidence(ctx)
	return nil
}

// handleBatch validates every bar before writing any, so a bad element
// rejects the whole message and it can be retried or dead-lettered intact.
func (h *KafkaBarsHandler) handleBatch(ctx context.Context, b []byte) error {
	var ms []barMessage
	if err := json.Unmarshal(b, &ms); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	bars := make([]*models.PricePoint, 0, len(ms))
	for _, m := range ms {
		bar, err := h.toBar(m)
		if err != nil {
			return err
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil
	}

	start := time.Now()
	err := h.bars.StoreBarBatch(ctx, bars)
	h.metrics.RecordLatency("bar_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	for _, bar := range bars {
		h.metrics.RecordLastClose(bar.Ticker, bar.AdjClose)
	}
	h.invalidateEvidence(ctx)
	return nil
}

func (h *KafkaBarsHandler) invalidateEvidence(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeleteByPattern(ctx, cache.BuildPattern("evidence")); err != nil {
		h.metrics.RecordError("consumer_cache_invalidate")
	}
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
