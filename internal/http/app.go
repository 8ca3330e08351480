package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fairyhunter13/printshop/internal/config"
	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/notify"
	"github.com/fairyhunter13/printshop/internal/payment"
	"github.com/fairyhunter13/printshop/internal/shop"
	"github.com/fairyhunter13/printshop/internal/store"
	"github.com/fairyhunter13/printshop/internal/uploads"
)

// App aggregates the dependencies of the HTTP handlers.
type App struct {
	Cfg      config.Config
	Store    *store.Store
	Shop     *shop.Service
	Gateway  payment.Gateway
	Notifier *notify.Manager
	Uploads  *uploads.Uploads
	closing  bool
	started  time.Time
}

// NewApp wires the HTTP layer's collaborators together.
func NewApp(cfg config.Config, st *store.Store, svc *shop.Service, gw payment.Gateway, n *notify.Manager, up *uploads.Uploads) *App {
	return &App{Cfg: cfg, Store: st, Shop: svc, Gateway: gw, Notifier: n, Uploads: up, started: time.Now()}
}

// StartShutdown flips the app into drain mode: checkout stops accepting new
// orders and the notification queue closes its intake.
func (a *App) StartShutdown() {
	a.closing = true
	a.Notifier.CloseIntake()
}

// shopSettings returns the saved shop identity, or the defaults when the shop
// was never configured.
func (a *App) shopSettings(ctx context.Context) model.ShopSettings {
	st, err := a.Store.Settings(ctx)
	if err != nil || st == nil {
		return model.DefaultSettings()
	}
	return *st
}

// render serves an HTML template with the shop identity attached under
// "Shop", which the shared header and price formatting rely on.
func (a *App) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Shop"]; !ok {
		data["Shop"] = a.shopSettings(c.Request.Context())
	}
	c.HTML(status, name, data)
}
