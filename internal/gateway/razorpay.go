package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"

	razorpay "github.com/razorpay/razorpay-go"
)

const serviceName = "razorpay"

// orderCreator is the subset of the razorpay order resource used here
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Razorpay creates payment orders through the Razorpay REST API
type Razorpay struct {
	orders orderCreator
}

func NewRazorpay(keyID, keySecret string) (*Razorpay, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: client.Order}, nil
}

func (r *Razorpay) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	logger.ExternalServiceCall(serviceName, "Order.Create", "receipt", req.Receipt, "amount", req.AmountMinor)
	body, err := r.orders.Create(data, nil)
	logger.ExternalServiceResult(serviceName, "Order.Create", err, "receipt", req.Receipt)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	order, err := decodeOrder(body)
	if err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, errors.New("razorpay create order: response has no order id")
	}
	return order, nil
}

// decodeOrder converts the loosely typed API response into a GatewayOrder.
// Razorpay renders empty notes as a JSON array, which is dropped.
func decodeOrder(body map[string]interface{}) (*domain.GatewayOrder, error) {
	if _, ok := body["notes"].(map[string]interface{}); !ok {
		delete(body, "notes")
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode razorpay order: %w", err)
	}
	var order domain.GatewayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode razorpay order: %w", err)
	}
	return &order, nil
}
