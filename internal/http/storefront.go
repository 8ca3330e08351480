package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homeProductCount is how many new arrivals the landing page shows.
const homeProductCount = 6

func (a *App) homePage(c *gin.Context) {
	products, err := a.Store.RecentProducts(c.Request.Context(), homeProductCount)
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "home.html", gin.H{"Products": products})
}

func (a *App) productsPage(c *gin.Context) {
	ctx := c.Request.Context()
	category := c.Query("category")
	products, err := a.Store.VisibleProducts(ctx, category)
	if err != nil {
		a.pageError(c, err)
		return
	}
	categories, err := a.Store.Categories(ctx)
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "products.html", gin.H{
		"Products":        products,
		"Categories":      categories,
		"CurrentCategory": category,
	})
}

// productDetailPage shows one visible product; hidden and unknown slugs both
// answer 404.
func (a *App) productDetailPage(c *gin.Context) {
	p, err := a.Store.VisibleProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "product_detail.html", gin.H{"Product": p})
}

func (a *App) cartPage(c *gin.Context) {
	a.render(c, http.StatusOK, "cart.html", gin.H{})
}

// checkoutPage exposes the browser-side keys the payment form needs.
func (a *App) checkoutPage(c *gin.Context) {
	a.render(c, http.StatusOK, "checkout.html", gin.H{
		"StripeKey":       a.Cfg.StripePublishableKey,
		"GooglePlacesKey": a.Cfg.GooglePlacesKey,
	})
}

// confirmationPage thanks the customer. The order number comes from the
// payment redirect and is shown as-is, without a lookup.
func (a *App) confirmationPage(c *gin.Context) {
	a.render(c, http.StatusOK, "confirmation.html", gin.H{
		"OrderNumber": c.Query("orderNumber"),
	})
}
