package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
)

// SimulatedSettlement stands in for on-chain broadcast and confirmation: it
// waits the configured delay and fabricates an opaque transaction reference.
type SimulatedSettlement struct {
	delay time.Duration
}

func NewSimulatedSettlement(delay time.Duration) *SimulatedSettlement {
	return &SimulatedSettlement{delay: delay}
}

func (s *SimulatedSettlement) Settle(ctx context.Context, _ *entity.Subscription) (Receipt, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}

	hash, err := randomTransactionHash()
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{TransactionHash: hash}, nil
}

func randomTransactionHash() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("tx-%s", hex.EncodeToString(buf)), nil
}
