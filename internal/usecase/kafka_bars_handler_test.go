package usecase

import (
	"context"
	"sync"
	"testing"

	"MagIntel/internal/domain/models"
)

type fakeBarWriter struct {
	mu      sync.Mutex
	bars    []models.PricePoint
	batches int
	err     error
}

func (w *fakeBarWriter) StoreBar(_ context.Context, p *models.PricePoint) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.bars = append(w.bars, *p)
	return nil
}

func (w *fakeBarWriter) StoreBarBatch(ctx context.Context, bars []*models.PricePoint) error {
	w.mu.Lock()
	w.batches++
	w.mu.Unlock()
	for _, b := range bars {
		if err := w.StoreBar(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func TestKafkaBarsHandlerStoresValidBar(t *testing.T) {
	w := &fakeBarWriter{}
	h := NewKafkaBarsHandler("market.bars", w, nil, &fakeMetrics{})

	if got := h.Topic(); got != "market.bars" {
		t.Fatalf("Topic() = %q", got)
	}

	msg := []byte(`{"ticker":"NVDA","trade_date":"2024-03-08","adj_close":875.28}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(w.bars) != 1 {
		t.Fatalf("expected 1 stored bar, got %d", len(w.bars))
	}
	bar := w.bars[0]
	if bar.Ticker != "NVDA" || bar.AdjClose != 875.28 {
		t.Fatalf("stored bar = %+v", bar)
	}
	if got := bar.TradeDate.Format("2006-01-02"); got != "2024-03-08" {
		t.Fatalf("stored date = %s", got)
	}
}

func TestKafkaBarsHandlerStoresBatch(t *testing.T) {
	w := &fakeBarWriter{}
	h := NewKafkaBarsHandler("market.bars", w, nil, &fakeMetrics{})

	msg := []byte(`[
		{"ticker":"NVDA","trade_date":"2024-03-08","adj_close":875.28},
		{"ticker":"AAPL","trade_date":"2024-03-08","adj_close":170.73}
	]`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if w.batches != 1 {
		t.Fatalf("expected 1 batch write, got %d", w.batches)
	}
	if len(w.bars) != 2 {
		t.Fatalf("expected 2 stored bars, got %d", len(w.bars))
	}
	if w.bars[0].Ticker != "NVDA" || w.bars[1].Ticker != "AAPL" {
		t.Fatalf("stored order = %s, %s", w.bars[0].Ticker, w.bars[1].Ticker)
	}
}

func TestKafkaBarsHandlerEmptyBatch(t *testing.T) {
	w := &fakeBarWriter{}
	h := NewKafkaBarsHandler("market.bars", w, nil, &fakeMetrics{})

	if err := h.Handle(context.Background(), []byte(`[]`)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if w.batches != 0 || len(w.bars) != 0 {
		t.Fatalf("empty batch wrote %d batches, %d bars", w.batches, len(w.bars))
	}
}

func TestKafkaBarsHandlerRejectsBadMessages(t *testing.T) {
	cases := []struct {
		name string
		msg  string
	}{
		{"not json", `{"ticker":`},
		{"missing ticker", `{"trade_date":"2024-03-08","adj_close":100}`},
		{"bad date", `{"ticker":"NVDA","trade_date":"03/08/2024","adj_close":100}`},
		{"zero close", `{"ticker":"NVDA","trade_date":"2024-03-08","adj_close":0}`},
		{"negative close", `{"ticker":"NVDA","trade_date":"2024-03-08","adj_close":-4}`},
		{"bad batch element", `[{"ticker":"NVDA","trade_date":"2024-03-08","adj_close":875.28},{"ticker":"","trade_date":"2024-03-08","adj_close":100}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &fakeBarWriter{}
			h := NewKafkaBarsHandler("market.bars", w, nil, &fakeMetrics{})
			if err := h.Handle(context.Background(), []byte(tc.msg)); err == nil {
				t.Fatal("expected error")
			}
			if len(w.bars) != 0 {
				t.Fatalf("bad message stored %d bars", len(w.bars))
			}
		})
	}
}
