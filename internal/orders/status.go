package orders

import (
	"fmt"

	"tableserve/internal/domain"
)

// PreparationMinutes is the constant preparation target.
const PreparationMinutes = 20

// ResolveStatus derives the coarse preparation status from minutes elapsed
// since placement. Nothing is persisted; callers recompute on every query,
// so the status can only move forward as time passes.
func ResolveStatus(minutesElapsed int) (status domain.OrderStatus, statusText, estimatedTime string) {
	switch {
	case minutesElapsed < 5:
		status, statusText = domain.StatusReceived, "Order Received"
	case minutesElapsed < 10:
		status, statusText = domain.StatusPreparing, "Preparing Your Food"
	case minutesElapsed < PreparationMinutes:
		status, statusText = domain.StatusCooking, "Almost Ready"
	default:
		return domain.StatusReady, "Ready to Serve", "Now"
	}
	return status, statusText, fmt.Sprintf("%d minutes", PreparationMinutes-minutesElapsed)
}
