package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-marketplace/app/dto"
	"github.com/vibast-solutions/ms-go-marketplace/app/mapper"
	"github.com/vibast-solutions/ms-go-marketplace/app/wallet"
)

type WalletController struct {
	registry *wallet.Registry
}

func NewWalletController(registry *wallet.Registry) *WalletController {
	return &WalletController{registry: registry}
}

// ListProviders exposes the wallets a subscriber can pay with. Only providers
// that can both connect and sign-and-send are offered.
func (c *WalletController) ListProviders(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.ListWalletProvidersResponse{
		Providers: mapper.WalletProvidersToResponse(c.registry.Eligible()),
	})
}
