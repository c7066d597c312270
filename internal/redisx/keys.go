package redisx

import "time"

const (
	// Cache status order: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Cache jumlah item cart: cart_count:{user_id} -> int
	KeyCartCount = "cart_count:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLCartCount   = time.Minute
)
