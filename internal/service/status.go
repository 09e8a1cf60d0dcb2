package service

import "checkout-service/internal/models"

// ResolveOrderStatus maps a gateway transaction status plus fraud flag to the
// internal order status:
//
//	capture/settlement + accept or absent  -> paid
//	capture/settlement + anything else    -> pending
//	cancel/expire                          -> cancelled
//	pending                                -> pending
//	anything else                          -> pending
func ResolveOrderStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture", "settlement":
		if fraudStatus == "accept" || fraudStatus == "" {
			return models.OrderStatusPaid
		}
		return models.OrderStatusPending
	case "cancel", "expire":
		return models.OrderStatusCancelled
	case "pending":
		return models.OrderStatusPending
	default:
		return models.OrderStatusPending
	}
}
