package payment

import (
	"context"

	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
)

// Receipt is the settlement outcome for one subscription payment.
type Receipt struct {
	TransactionHash string
}

// Settlement broadcasts and confirms a subscription payment. The marketplace
// currently ships a simulated implementation; a real chain client slots in
// behind the same interface.
type Settlement interface {
	Settle(ctx context.Context, subscription *entity.Subscription) (Receipt, error)
}
