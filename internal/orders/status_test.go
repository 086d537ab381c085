package orders

import (
	"testing"

	"tableserve/internal/domain"
)

func TestResolveStatusTable(t *testing.T) {
	tests := []struct {
		elapsed int
		status  domain.OrderStatus
		text    string
		eta     string
	}{
		{0, domain.StatusReceived, "Order Received", "20 minutes"},
		{4, domain.StatusReceived, "Order Received", "16 minutes"},
		{5, domain.StatusPreparing, "Preparing Your Food", "15 minutes"},
		{9, domain.StatusPreparing, "Preparing Your Food", "11 minutes"},
		{10, domain.StatusCooking, "Almost Ready", "10 minutes"},
		{19, domain.StatusCooking, "Almost Ready", "1 minutes"},
		{20, domain.StatusReady, "Ready to Serve", "Now"},
		{45, domain.StatusReady, "Ready to Serve", "Now"},
	}
	for _, tt := range tests {
		status, text, eta := ResolveStatus(tt.elapsed)
		if status != tt.status || text != tt.text || eta != tt.eta {
			t.Errorf("ResolveStatus(%d) = (%s, %q, %q), want (%s, %q, %q)",
				tt.elapsed, status, text, eta, tt.status, tt.text, tt.eta)
		}
	}
}

func TestResolveStatusMonotonic(t *testing.T) {
	rank := map[domain.OrderStatus]int{
		domain.StatusReceived:  0,
		domain.StatusPreparing: 1,
		domain.StatusCooking:   2,
		domain.StatusReady:     3,
	}
	prev := -1
	for elapsed := 0; elapsed <= 60; elapsed++ {
		status, _, _ := ResolveStatus(elapsed)
		if rank[status] < prev {
			t.Fatalf("status regressed at elapsed=%d: %s", elapsed, status)
		}
		prev = rank[status]
	}
}
