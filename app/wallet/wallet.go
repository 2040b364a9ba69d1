package wallet

import (
	"context"
	"errors"
)

var ErrConnectNotSupported = errors.New("wallet provider does not support connect")

// Account is the identity a connected wallet yields. The address string is
// the subscriber/publisher identity everywhere else in the system.
type Account struct {
	Address string
}

// Provider abstracts one wallet integration. Capability flags replace the
// duck-typed feature probing the wallet-standard layer does client-side: a
// provider is only usable for the marketplace when it can both connect and
// sign-and-send the payment transaction.
type Provider interface {
	Name() string
	SupportsConnect() bool
	SupportsSignAndSend() bool
	Connect(ctx context.Context) (Account, error)
}

// Registry holds the wallet providers the platform knows about.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

func (r *Registry) All() []Provider {
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Eligible filters to providers supporting both connect and sign-and-send.
func (r *Registry) Eligible() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.SupportsConnect() && p.SupportsSignAndSend() {
			out = append(out, p)
		}
	}
	return out
}

// StaticProvider describes a wallet whose connection handshake happens in the
// subscriber's browser; the server only needs its name and capability set.
type StaticProvider struct {
	ProviderName string
	CanConnect   bool
	CanSignSend  bool
}

func (p StaticProvider) Name() string              { return p.ProviderName }
func (p StaticProvider) SupportsConnect() bool     { return p.CanConnect }
func (p StaticProvider) SupportsSignAndSend() bool { return p.CanSignSend }

func (p StaticProvider) Connect(context.Context) (Account, error) {
	return Account{}, ErrConnectNotSupported
}
