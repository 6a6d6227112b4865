package integration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"evento/internal/models"
)

// TestPurchaseAndAdmissionFlow walks the whole lifecycle against a
// running instance: staff creates an event and a ticket type, a user
// buys and pays, staff verifies at the gate, and a second scan of the
// same code is rejected.
func TestPurchaseAndAdmissionFlow(t *testing.T) {
	staff := newStaffClient(t)
	user := newUserClient(t)

	event := staff.CreateEvent(t, &models.CreateEventRequest{
		Name:     "Integration Flow " + time.Now().Format(time.RFC3339Nano),
		Category: "music",
		StartsAt: time.Now().Add(48 * time.Hour),
		Capacity: 10,
	})

	tt := staff.CreateTicketType(t, event.ID, &models.CreateTicketTypeRequest{
		Name:              "General",
		Price:             decimal.NewFromInt(25),
		AvailableQuantity: 5,
	})

	purchase := user.Purchase(t, &models.PurchaseRequest{
		TicketTypeID: tt.ID,
		Quantity:     2,
	})
	if len(purchase.Tickets) != 2 {
		t.Fatalf("Expected 2 tickets, got %d", len(purchase.Tickets))
	}
	ticket := purchase.Tickets[0]

	payment := user.Pay(t, &models.PayRequest{
		TicketID: ticket.ID,
		Method:   models.MethodCreditCard,
		// Standard test PAN.
		CardNumber: "4111111111111111",
	})
	if payment.Status != models.PaymentCompleted {
		t.Fatalf("Expected completed payment, got %s", payment.Status)
	}
	if payment.CardType == nil || *payment.CardType != "Visa" {
		t.Fatalf("Expected Visa card type, got %v", payment.CardType)
	}

	verdict := staff.Verify(t, &models.VerifyRequest{TicketCode: ticket.Code})
	if !verdict.Accepted {
		t.Fatalf("Expected acceptance, got: %s", verdict.Message)
	}

	second := staff.Verify(t, &models.VerifyRequest{TicketCode: ticket.Code})
	if second.Accepted {
		t.Fatal("Second scan of the same code must be rejected")
	}

	// The unpaid sibling ticket is rejected at the gate.
	unpaid := staff.Verify(t, &models.VerifyRequest{TicketCode: purchase.Tickets[1].Code})
	if unpaid.Accepted {
		t.Fatal("Unpaid ticket must be rejected")
	}
}

// TestOversellRejected drains a small inventory and checks the hard cap.
func TestOversellRejected(t *testing.T) {
	staff := newStaffClient(t)
	user := newUserClient(t)

	event := staff.CreateEvent(t, &models.CreateEventRequest{
		Name:     "Oversell " + time.Now().Format(time.RFC3339Nano),
		Category: "other",
		StartsAt: time.Now().Add(24 * time.Hour),
		Capacity: 3,
	})

	tt := staff.CreateTicketType(t, event.ID, &models.CreateTicketTypeRequest{
		Name:              "Limited",
		Price:             decimal.NewFromInt(10),
		AvailableQuantity: 3,
	})

	user.Purchase(t, &models.PurchaseRequest{TicketTypeID: tt.ID, Quantity: 3})

	resp := user.makeRequest(t, "POST", "/api/tickets", &models.PurchaseRequest{
		TicketTypeID: tt.ID,
		Quantity:     1,
	})
	defer resp.Body.Close()
	if resp.StatusCode != 409 {
		t.Fatalf("Expected 409 on oversell, got %d", resp.StatusCode)
	}
}
