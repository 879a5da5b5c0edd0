package enums

import "fmt"

// OrderChannel records which checkout path produced an order.
type OrderChannel string

const (
	OrderChannelStorefront OrderChannel = "storefront"
	OrderChannelWhatsApp   OrderChannel = "whatsapp"
)

var validOrderChannels = []OrderChannel{
	OrderChannelStorefront,
	OrderChannelWhatsApp,
}

func (c OrderChannel) String() string {
	return string(c)
}

func (c OrderChannel) IsValid() bool {
	for _, candidate := range validOrderChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseOrderChannel(value string) (OrderChannel, error) {
	for _, candidate := range validOrderChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order channel %q", value)
}
