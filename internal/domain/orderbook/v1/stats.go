package orderbookv1

// Stats aggregates lifetime counters and the current shape of the book.
type Stats struct {
	// OrdersProcessed counts every admitted limit and market order.
	OrdersProcessed int64 `json:"ordersProcessed"`
	// FillCount counts individual fills produced by matching.
	FillCount int64 `json:"fillCount"`
	// VolumeTraded is the total quantity matched, in lots.
	VolumeTraded int64 `json:"volumeTraded"`

	BidLevels     int   `json:"bidLevels"`
	AskLevels     int   `json:"askLevels"`
	BidVolume     int64 `json:"bidVolume"`
	AskVolume     int64 `json:"askVolume"`
	RestingOrders int   `json:"restingOrders"`
}

// Stats returns a snapshot of the book's counters.
func (b *Book) Stats() Stats {
	return Stats{
		OrdersProcessed: b.ordersProcessed,
		FillCount:       b.fillCount,
		VolumeTraded:    b.volumeTraded,
		BidLevels:       b.bids.Len(),
		AskLevels:       b.asks.Len(),
		BidVolume:       b.bidVolume,
		AskVolume:       b.askVolume,
		RestingOrders:   len(b.orders),
	}
}
