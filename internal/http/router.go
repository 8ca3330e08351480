package httpapi

import (
	"expvar"
	"regexp"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/printshop/web"
)

// slugPattern matches the slugs model.Slugify produces.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NewRouter registers routes, middleware, templates and static assets.
func NewRouter(a *App) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	}

	r := gin.New()
	r.Use(gin.Recovery(), WithRequestID(), WithLogging())
	r.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(a.Cfg.SecretKey))), withAdminFlag())

	r.SetHTMLTemplate(web.Templates())
	r.StaticFS("/static", web.StaticFS())

	r.GET("/", a.homePage)
	r.GET("/products", a.productsPage)
	r.GET("/products/:slug", a.productDetailPage)
	r.GET("/cart", a.cartPage)
	r.GET("/checkout", a.checkoutPage)
	r.GET("/checkout/confirmation", a.confirmationPage)

	api := r.Group("/api")
	{
		api.GET("/health", a.healthHandler)
		api.POST("/stripe/create-payment-intent", a.checkoutHandler)
		api.POST("/stripe/webhook", a.webhookHandler)
		api.POST("/upload", requireAdminJSON, a.uploadHandler)
		api.GET("/uploads/:filename", a.serveUploadHandler)
		api.GET("/products/filter", a.productFilterHandler)
		api.GET("/categories", a.categoriesHandler)
		api.POST("/seed", a.seedHandler)
		api.GET("/openapi.yaml", a.openapiHandler)
		api.GET("/docs", a.docsHandler)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/login", a.loginPage)
		admin.POST("/login", a.loginHandler)
		admin.POST("/logout", a.logoutHandler)

		authed := admin.Group("", requireAdminPage)
		authed.GET("/", a.dashboardPage)
		authed.GET("/products", a.adminProductsPage)
		authed.GET("/products/new", a.productNewPage)
		authed.POST("/products/new", a.productCreateHandler)
		authed.GET("/products/:id", a.productEditPage)
		authed.POST("/products/:id", a.productUpdateHandler)
		authed.POST("/products/:id/delete", a.productDeleteHandler)
		authed.GET("/orders", a.adminOrdersPage)
		authed.GET("/orders/:id", a.orderDetailPage)
		authed.POST("/orders/:id/status", a.orderStatusHandler)
		authed.POST("/orders/:id/refund", a.orderRefundHandler)
		authed.GET("/settings", a.settingsPage)
		authed.POST("/settings", a.settingsSaveHandler)
	}

	r.GET("/debug/metrics", a.metricsHandler)
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	return r
}
