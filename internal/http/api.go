package httpapi

import (
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	httpopenapi "github.com/fairyhunter13/printshop/internal/http/openapi"
	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/obs"
	"github.com/fairyhunter13/printshop/internal/payment"
	"github.com/fairyhunter13/printshop/internal/shop"
	"github.com/fairyhunter13/printshop/internal/uploads"
)

func (a *App) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// checkoutHandler opens an order for the submitted cart and answers what the
// browser needs to collect payment.
func (a *App) checkoutHandler(c *gin.Context) {
	if a.closing || a.Notifier.IsShuttingDown() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Shutting down"})
		return
	}
	var in shop.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := a.Shop.Checkout(c.Request.Context(), in)
	if err != nil {
		// Checkout reports unknown products as plain validation failures:
		// 400, not 404.
		if model.ErrorCode(err) == model.ENOTFOUND {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": model.ErrorMessage(err)})
			return
		}
		errorJSON(c, err)
		return
	}
	obs.Logger.Info("checkout_accepted",
		"order_number", res.OrderNumber,
		"order_id", res.OrderID,
		"request_id", RequestID(c),
	)
	c.JSON(http.StatusOK, res)
}

// webhookHandler receives payment-provider events. Once the signature
// verifies the response is always {"received": true}; processing failures
// are logged, not surfaced.
func (a *App) webhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
		return
	}
	ev, err := a.Gateway.VerifyEvent(payload, sig)
	if err != nil {
		errorJSON(c, err)
		return
	}
	if ev.Type == payment.EventPaymentSucceeded {
		if err := a.Shop.MarkPaid(c.Request.Context(), ev.IntentID); err != nil {
			obs.Logger.Error("webhook processing failed",
				"intent_id", ev.IntentID,
				"error", err,
				"request_id", RequestID(c),
			)
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// uploadHandler stores one admin-submitted image and answers its public URL.
func (a *App) uploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.Cfg.MaxUploadMB<<20)
	file, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if file.Filename == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if !uploads.Allowed(file.Filename) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}
	src, err := file.Open()
	if err != nil {
		errorJSON(c, err)
		return
	}
	defer src.Close()
	url, err := a.Uploads.Save(file.Filename, src)
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// serveUploadHandler serves a stored image with a one-year cache header.
func (a *App) serveUploadHandler(c *gin.Context) {
	path, err := a.Uploads.Path(c.Param("filename"))
	if err != nil {
		errorJSON(c, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		errorJSON(c, model.Errorf(model.ENOTFOUND, "File not found"))
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// productFilterHandler renders the product grid partial for client-side
// category switching.
func (a *App) productFilterHandler(c *gin.Context) {
	category := c.Query("category")
	products, err := a.Store.VisibleProducts(c.Request.Context(), category)
	if err != nil {
		errorJSON(c, err)
		return
	}
	a.render(c, http.StatusOK, "product_grid.html", gin.H{
		"Products":        products,
		"CurrentCategory": category,
	})
}

func (a *App) categoriesHandler(c *gin.Context) {
	cats, err := a.Store.Categories(c.Request.Context())
	if err != nil {
		errorJSON(c, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	c.JSON(http.StatusOK, cats)
}

// seedHandler loads the demo catalog. Refused outside development.
func (a *App) seedHandler(c *gin.Context) {
	if !a.Cfg.Debug() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not allowed in production"})
		return
	}
	created, err := a.Store.Seed(c.Request.Context())
	if err != nil {
		errorJSON(c, err)
		return
	}
	obs.Logger.Info("seed_applied", "products_created", created, "request_id", RequestID(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Seed data created"})
}

func (a *App) metricsHandler(c *gin.Context) {
	enq, proc, backlog, depth := a.Notifier.QueueMetrics()
	c.JSON(http.StatusOK, gin.H{
		"notifications_enqueued":  enq,
		"notifications_processed": proc,
		"backlog_size":            backlog,
		"queue_depth":             depth,
		"worker_count":            a.Notifier.WorkerCount(),
		"uptime_sec":              time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", httpopenapi.YAML)
}

func (a *App) docsHandler(c *gin.Context) {
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/api/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
