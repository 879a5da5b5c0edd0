package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Tenant resolution outcomes.
const (
	TenantResolved = "resolved"
	TenantUnknown  = "unknown"
	TenantBare     = "bare"
)

// StorefrontMetrics records cart and checkout activity per vendor.
type StorefrontMetrics struct {
	itemsAdded    *prometheus.CounterVec
	ordersCreated *prometheus.CounterVec
	orderValue    *prometheus.HistogramVec
	tenants       *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront collectors on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	itemsAdded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Products added to carts.",
	}, []string{"vendor"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders placed at checkout.",
	}, []string{"vendor", "channel"})
	orderValue := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_value_cents",
		Help:    "Order totals in minor currency units.",
		Buckets: prometheus.ExponentialBuckets(500, 2, 12),
	}, []string{"channel"})
	tenants := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tenant_resolutions_total",
		Help: "Host to vendor resolutions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(itemsAdded, ordersCreated, orderValue, tenants)
	return &StorefrontMetrics{
		itemsAdded:    itemsAdded,
		ordersCreated: ordersCreated,
		orderValue:    orderValue,
		tenants:       tenants,
	}
}

// IncItemAdded counts one add-to-cart for the vendor slug.
func (m *StorefrontMetrics) IncItemAdded(vendor string) {
	if m == nil || m.itemsAdded == nil {
		return
	}
	m.itemsAdded.WithLabelValues(normalizeLabel(vendor)).Inc()
}

// ObserveOrder counts the order and records its value.
func (m *StorefrontMetrics) ObserveOrder(vendor, channel string, totalCents int64) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	channel = normalizeLabel(channel)
	m.ordersCreated.WithLabelValues(normalizeLabel(vendor), channel).Inc()
	m.orderValue.WithLabelValues(channel).Observe(float64(totalCents))
}

// IncTenantResolution counts a host resolution outcome.
func (m *StorefrontMetrics) IncTenantResolution(outcome string) {
	if m == nil || m.tenants == nil {
		return
	}
	m.tenants.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
