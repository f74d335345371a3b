package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	instrumentv1 "github.com/openclob/matching-engine/internal/domain/instrument/v1"
	orderreaderv1 "github.com/openclob/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
)

// generateRequests creates a stream of random order requests. Prices and
// sizes are built from integer ticks and lots so every request is aligned
// to the instrument and none is rejected at admission.
func generateRequests(
	count int,
	rng *rand.Rand,
	ins *instrumentv1.Instrument,
	baseTicks, spreadTicks, maxLots int64,
	marketRatio, cancelRatio float64,
) []orderreaderv1.OrderRequest {
	requests := make([]orderreaderv1.OrderRequest, count)

	for i := 0; i < count; i++ {
		side := orderbookv1.SideBid
		if rng.Intn(2) == 0 {
			side = orderbookv1.SideAsk
		}

		size := ins.SizeFromLots(1 + rng.Int63n(maxLots))

		roll := rng.Float64()
		switch {
		case roll < cancelRatio && i > 10:
			// Target an order ID the engine has probably assigned by now.
			requests[i] = orderreaderv1.OrderRequest{
				RequestID: uuid.NewString(),
				Type:      orderreaderv1.OrderTypeCancel,
				OrderID:   uint64(rng.Int63n(int64(i)) + 1),
			}
		case roll < cancelRatio+marketRatio:
			requests[i] = orderreaderv1.OrderRequest{
				RequestID: uuid.NewString(),
				Type:      orderreaderv1.OrderTypeMarket,
				Side:      side,
				Size:      size,
			}
		default:
			// Bid and ask bands overlap around the base price so a share
			// of the limit orders cross and produce fills.
			delta := rng.Int63n(spreadTicks) - spreadTicks/5
			ticks := baseTicks - delta
			if side == orderbookv1.SideAsk {
				ticks = baseTicks + delta
			}
			if ticks <= 0 {
				ticks = baseTicks
			}

			requests[i] = orderreaderv1.OrderRequest{
				RequestID: uuid.NewString(),
				Type:      orderreaderv1.OrderTypeLimit,
				Side:      side,
				Price:     ins.PriceFromTicks(ticks),
				Size:      size,
			}
		}
	}

	return requests
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		pair        = flag.String("pair", "BTC-USD", "Trading pair the requests are generated for")
		tickSize    = flag.String("tick-size", "0.01", "Price increment of the pair")
		lotSize     = flag.String("lot-size", "0.001", "Size increment of the pair")
		basePrice   = flag.String("base-price", "42000", "Base price for generated orders")
		spreadTicks = flag.Int64("spread-ticks", 2000, "Price spread around the base, in ticks")
		maxLots     = flag.Int64("max-lots", 5000, "Maximum order size, in lots")
		count       = flag.Int("count", 1000, "Number of requests to generate")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending requests")
		marketRatio = flag.Float64("market-ratio", 0.2, "Fraction of market orders")
		cancelRatio = flag.Float64("cancel-ratio", 0.1, "Fraction of cancel requests")
		seed        = flag.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	ins, err := instrumentv1.NewInstrument(
		*pair,
		decimal.RequireFromString(*tickSize),
		decimal.RequireFromString(*lotSize),
	)
	if err != nil {
		log.Fatalf("Invalid instrument parameters: %v", err)
	}

	baseTicks, err := ins.PriceToTicks(decimal.RequireFromString(*basePrice))
	if err != nil {
		log.Fatalf("Invalid base price: %v", err)
	}

	// Create Kafka writer
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	log.Printf("Generating %d requests for %s (seed %d)...", *count, *pair, *seed)
	requests := generateRequests(*count, rng, ins, baseTicks, *spreadTicks, *maxLots, *marketRatio, *cancelRatio)

	log.Printf("Sending requests to Kafka broker: %s, topic: %s", *brokers, *topic)
	log.Printf("Delay between requests: %v", *delay)

	for i, request := range requests {
		payload, err := json.Marshal(request)
		if err != nil {
			log.Printf("Failed to marshal request %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(request.RequestID),
			Value: payload,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send request %d (%s): %v", i+1, request.RequestID, err)
			continue
		}

		// Log progress every 100 requests or for the last one
		if (i+1)%100 == 0 || i == len(requests)-1 {
			switch request.Type {
			case orderreaderv1.OrderTypeCancel:
				log.Printf("Sent request %d/%d: %s | cancel order %d",
					i+1, len(requests), request.RequestID, request.OrderID)
			case orderreaderv1.OrderTypeMarket:
				log.Printf("Sent request %d/%d: %s | market %s | size: %s",
					i+1, len(requests), request.RequestID, request.Side, request.Size)
			default:
				log.Printf("Sent request %d/%d: %s | limit %s | size: %s @ %s",
					i+1, len(requests), request.RequestID, request.Side, request.Size, request.Price)
			}
		}

		if i < len(requests)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Successfully sent all %d requests!", len(requests))

	// Print summary
	limitOrders := 0
	marketOrders := 0
	cancels := 0
	buyOrders := 0
	sellOrders := 0

	for _, request := range requests {
		switch request.Type {
		case orderreaderv1.OrderTypeLimit:
			limitOrders++
		case orderreaderv1.OrderTypeMarket:
			marketOrders++
		case orderreaderv1.OrderTypeCancel:
			cancels++
			continue
		}
		if request.Side == orderbookv1.SideBid {
			buyOrders++
		} else {
			sellOrders++
		}
	}

	log.Printf("--- Summary ---")
	log.Printf("Total Requests: %d", len(requests))
	log.Printf("Limit Orders: %d", limitOrders)
	log.Printf("Market Orders: %d", marketOrders)
	log.Printf("Cancels: %d", cancels)
	log.Printf("Buy Orders: %d", buyOrders)
	log.Printf("Sell Orders: %d", sellOrders)
}
