package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fairyhunter13/printshop/internal/model"
)

// recentOrderCount is how many orders the dashboard previews.
const recentOrderCount = 5

// loginPage renders the password form; signed-in admins go straight to the
// dashboard.
func (a *App) loginPage(c *gin.Context) {
	if isAdmin(c) {
		c.Redirect(http.StatusFound, "/admin/")
		return
	}
	a.render(c, http.StatusOK, "login.html", gin.H{})
}

// loginHandler checks the password and marks the session as admin.
func (a *App) loginHandler(c *gin.Context) {
	if isAdmin(c) {
		c.Redirect(http.StatusFound, "/admin/")
		return
	}
	if !passwordMatches(c.PostForm("password"), a.Cfg.AdminPassword) {
		a.render(c, http.StatusOK, "login.html", gin.H{"Error": "Invalid password"})
		return
	}
	if err := setAdmin(c, true); err != nil {
		a.pageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/")
}

func (a *App) logoutHandler(c *gin.Context) {
	if err := setAdmin(c, false); err != nil {
		a.pageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

// dashboardPage summarizes revenue, order volume and low stock.
func (a *App) dashboardPage(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := a.Shop.DashboardStats(ctx)
	if err != nil {
		a.pageError(c, err)
		return
	}
	recent, err := a.Store.RecentOrders(ctx, recentOrderCount)
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Stats":        stats,
		"RecentOrders": recent,
		"Flashes":      takeFlashes(c),
	})
}

func (a *App) adminProductsPage(c *gin.Context) {
	products, err := a.Store.AllProducts(c.Request.Context())
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "products_list.html", gin.H{
		"Products": products,
		"Flashes":  takeFlashes(c),
	})
}

func (a *App) productNewPage(c *gin.Context) {
	a.render(c, http.StatusOK, "product_form.html", gin.H{"Product": nil})
}

func (a *App) productEditPage(c *gin.Context) {
	p, err := a.Store.ProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "product_form.html", gin.H{"Product": p})
}

type imagePayload struct {
	URL string `json:"url" binding:"required"`
	Alt string `json:"alt"`
}

// productPayload is the JSON body posted by the admin product form.
type productPayload struct {
	Name        string         `json:"name" binding:"required"`
	Slug        string         `json:"slug" binding:"omitempty,slug"`
	Description string         `json:"description"`
	Price       int64          `json:"price"`
	Stock       int64          `json:"stock"`
	Category    string         `json:"category"`
	Visible     *bool          `json:"visible"`
	Images      []imagePayload `json:"images" binding:"omitempty,dive"`
}

// product builds the entity, defaulting the slug from the name and the
// visibility to shown.
func (p productPayload) product(id string) *model.Product {
	slug := p.Slug
	if slug == "" {
		slug = model.Slugify(p.Name)
	}
	visible := true
	if p.Visible != nil {
		visible = *p.Visible
	}
	images := make([]model.ProductImage, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, model.ProductImage{URL: img.URL, Alt: img.Alt})
	}
	return &model.Product{
		ID:          id,
		Name:        p.Name,
		Slug:        slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Visible:     visible,
		Images:      images,
	}
}

func (a *App) productCreateHandler(c *gin.Context) {
	var in productPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}
	p := in.product("")
	if err := a.Store.CreateProduct(c.Request.Context(), p); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": p.ID})
}

// productUpdateHandler rewrites the product and replaces its image set.
func (a *App) productUpdateHandler(c *gin.Context) {
	var in productPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}
	p := in.product(c.Param("id"))
	if err := a.Store.UpdateProduct(c.Request.Context(), p); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": p.ID})
}

func (a *App) productDeleteHandler(c *gin.Context) {
	if err := a.Store.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		a.pageError(c, err)
		return
	}
	addFlash(c, "success", "Product deleted")
	c.Redirect(http.StatusFound, "/admin/products")
}

// adminOrdersPage lists orders newest first, optionally narrowed to one
// status.
func (a *App) adminOrdersPage(c *gin.Context) {
	status := c.Query("status")
	orders, err := a.Store.Orders(c.Request.Context(), model.OrderStatus(status))
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "orders_list.html", gin.H{
		"Orders":        orders,
		"CurrentStatus": status,
		"Statuses":      model.AllStatuses(),
		"Flashes":       takeFlashes(c),
	})
}

// orderDetailPage shows one order with its decoded shipping address.
func (a *App) orderDetailPage(c *gin.Context) {
	order, err := a.Store.OrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.pageError(c, err)
		return
	}
	var address map[string]any
	_ = json.Unmarshal([]byte(order.ShippingAddress), &address)
	a.render(c, http.StatusOK, "order_detail.html", gin.H{
		"Order":    order,
		"Address":  address,
		"Statuses": model.AllStatuses(),
		"Flashes":  takeFlashes(c),
	})
}

// orderStatusHandler applies a back-office status change and re-renders the
// status form partial.
func (a *App) orderStatusHandler(c *gin.Context) {
	id := c.Param("id")
	status := model.OrderStatus(c.PostForm("status"))
	if err := a.Shop.SetStatus(c.Request.Context(), id, status); err != nil {
		errorJSON(c, err)
		return
	}
	order, err := a.Store.OrderByID(c.Request.Context(), id)
	if err != nil {
		errorJSON(c, err)
		return
	}
	a.render(c, http.StatusOK, "order_status_form.html", gin.H{
		"Order":    order,
		"Statuses": model.AllStatuses(),
	})
}

// orderRefundHandler refunds the payment and restocks; the outcome lands as a
// flash on the order page.
func (a *App) orderRefundHandler(c *gin.Context) {
	id := c.Param("id")
	err := a.Shop.Refund(c.Request.Context(), id)
	switch {
	case err == nil:
		addFlash(c, "success", "Refund issued successfully")
	case model.ErrorCode(err) == model.ENOTFOUND:
		a.pageError(c, err)
		return
	default:
		addFlash(c, "error", model.ErrorMessage(err))
	}
	c.Redirect(http.StatusFound, "/admin/orders/"+id)
}

// settingsPage lazily creates the singleton row and shows the form.
func (a *App) settingsPage(c *gin.Context) {
	settings, err := a.Store.EnsureSettings(c.Request.Context())
	if err != nil {
		a.pageError(c, err)
		return
	}
	a.render(c, http.StatusOK, "settings.html", gin.H{
		"Settings": settings,
		"Flashes":  takeFlashes(c),
	})
}

// settingsSaveHandler updates the submitted fields; absent fields keep their
// saved values.
func (a *App) settingsSaveHandler(c *gin.Context) {
	ctx := c.Request.Context()
	settings, err := a.Store.EnsureSettings(ctx)
	if err != nil {
		a.pageError(c, err)
		return
	}
	if v, ok := c.GetPostForm("shop_name"); ok {
		settings.ShopName = v
	}
	if v, ok := c.GetPostForm("description"); ok {
		settings.Description = v
	}
	if v, ok := c.GetPostForm("currency"); ok {
		settings.Currency = v
	}
	if v, ok := c.GetPostForm("shipping_fee"); ok {
		fee, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			addFlash(c, "error", "Shipping fee must be a whole number of cents")
			c.Redirect(http.StatusFound, "/admin/settings")
			return
		}
		settings.ShippingFee = fee
	}
	if err := a.Store.SaveSettings(ctx, settings); err != nil {
		a.pageError(c, err)
		return
	}
	addFlash(c, "success", "Settings saved")
	c.Redirect(http.StatusFound, "/admin/settings")
}
