package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPurchase(_ *PurchaseEvent) error    { return nil }
func (n *NoopRecorder) RecordPrestige(_ *PrestigeEvent) error    { return nil }
func (n *NoopRecorder) RecordEvent(_ *RandomEvent) error         { return nil }
func (n *NoopRecorder) RecordLoan(_ *LoanEvent) error            { return nil }
func (n *NoopRecorder) RecordMarketSample(_ *MarketSample) error { return nil }
func (n *NoopRecorder) Summary() (*Summary, error)               { return &Summary{}, nil }
func (n *NoopRecorder) Close() error                             { return nil }
