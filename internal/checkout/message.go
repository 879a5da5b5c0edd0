package checkout

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/whatsapp"
)

// OrderMessage renders the order as the prefilled WhatsApp text.
func OrderMessage(order *models.Order, formatter *money.Formatter) string {
	var b strings.Builder
	b.WriteString("*New Order!*\n\n")
	fmt.Fprintf(&b, "*From:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "*Phone:* %s\n", order.CustomerPhone)
	if order.CustomerAddress != nil {
		fmt.Fprintf(&b, "*Address:* %s\n", *order.CustomerAddress)
	}
	if order.CustomerEmail != nil {
		fmt.Fprintf(&b, "*Email:* %s\n", *order.CustomerEmail)
	}
	if order.Notes != nil {
		fmt.Fprintf(&b, "*Note:* %s\n", *order.Notes)
	}
	b.WriteString("\n*Items:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s × %d = %s\n", item.ProductName, item.Quantity, formatter.FormatCents(item.LineTotalCents()))
	}
	fmt.Fprintf(&b, "\n*Total:* %s", formatter.FormatCents(order.TotalCents))
	return b.String()
}

// BuildWhatsAppLink returns the deep link that hands the order to the vendor's WhatsApp.
func BuildWhatsAppLink(baseURL, number string, order *models.Order, formatter *money.Formatter) (string, error) {
	if order == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	link, err := whatsapp.Link(baseURL, number, OrderMessage(order, formatter))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "store has no whatsapp number")
	}
	return link, nil
}
