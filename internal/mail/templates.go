package mail

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"formatPrice": money.Format,
}).ParseFS(templateFS, "templates/*.html"))

// orderMail is the data handed to the order email templates.
type orderMail struct {
	Order    *model.Order
	ShopName string
	Currency string
}

// OrderConfirmation renders the post-payment confirmation email.
func OrderConfirmation(order *model.Order, shopName, currency string) (Message, error) {
	return render("order_confirmation.html", "Order Confirmed - "+order.OrderNumber, order, shopName, currency)
}

// ShippingUpdate renders the shipped-notification email.
func ShippingUpdate(order *model.Order, shopName, currency string) (Message, error) {
	return render("shipping_update.html", "Your Order Has Shipped - "+order.OrderNumber, order, shopName, currency)
}

func render(name, subject string, order *model.Order, shopName, currency string) (Message, error) {
	var buf bytes.Buffer
	data := orderMail{Order: order, ShopName: shopName, Currency: currency}
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, err
	}
	return Message{To: order.CustomerEmail, Subject: subject, HTML: buf.String()}, nil
}
