package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
)

func TestBookHandler(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "ann", "ann@example.com", model.RoleStudent)
	classID := app.bookingStore.addClass(1, 2000)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/classes/"+classID.String()+"/book", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", rec.Code, envelope)
	}
	booking := dataField(t, envelope, "booking")
	if booking["status"] != "pending" || booking["payment_status"] != "unpaid" {
		t.Errorf("booking = %v, want pending/unpaid", booking)
	}
	if booking["price_cents"].(float64) != 2000 {
		t.Errorf("price_cents = %v, want 2000", booking["price_cents"])
	}

	// Duplicate booking on the same class.
	rec, envelope = app.request(t, http.MethodPost, "/api/v1/classes/"+classID.String()+"/book", token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
	if code := errCode(envelope); code != "ALREADY_BOOKED" {
		t.Errorf("error code = %q, want ALREADY_BOOKED", code)
	}

	// Full class for a different account.
	_, otherToken := app.register(t, "bob", "bob@example.com", model.RoleStudent)
	rec, envelope = app.request(t, http.MethodPost, "/api/v1/classes/"+classID.String()+"/book", otherToken, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("full status = %d, want 409", rec.Code)
	}
	if code := errCode(envelope); code != "CLASS_FULL" {
		t.Errorf("error code = %q, want CLASS_FULL", code)
	}
}

func TestBookHandlerBadInput(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register(t, "ann", "ann@example.com", model.RoleStudent)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/classes/not-a-uuid/book", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id status = %d, want 400", rec.Code)
	}
	if code := errCode(envelope); code != "INVALID_ID" {
		t.Errorf("error code = %q, want INVALID_ID", code)
	}

	rec, envelope = app.request(t, http.MethodPost, "/api/v1/classes/"+uuid.NewString()+"/book", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing class status = %d, want 404", rec.Code)
	}
	if code := errCode(envelope); code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", code)
	}
}

func TestConfirmHandlerOwnership(t *testing.T) {
	app := newTestApp(t)
	_, ownerToken := app.register(t, "ann", "ann@example.com", model.RoleStudent)
	_, strangerToken := app.register(t, "bob", "bob@example.com", model.RoleStudent)
	classID := app.bookingStore.addClass(5, 1000)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/classes/"+classID.String()+"/book", ownerToken, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d, want 201", rec.Code)
	}
	bookingID := dataField(t, envelope, "booking")["id"].(string)

	rec, envelope = app.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/confirm", strangerToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger confirm status = %d, want 403", rec.Code)
	}
	if code := errCode(envelope); code != "NOT_BOOKING_OWNER" {
		t.Errorf("error code = %q, want NOT_BOOKING_OWNER", code)
	}

	rec, envelope = app.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/confirm", ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner confirm status = %d, want 200: %v", rec.Code, envelope)
	}
	booking := dataField(t, envelope, "booking")
	if booking["status"] != "confirmed" || booking["payment_status"] != "paid" {
		t.Errorf("booking = %v, want confirmed/paid", booking)
	}

	rec, envelope = app.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/confirm", ownerToken, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-confirm status = %d, want 409", rec.Code)
	}
	if code := errCode(envelope); code != "INVALID_STATUS_TRANSITION" {
		t.Errorf("error code = %q, want INVALID_STATUS_TRANSITION", code)
	}
}

func TestCancelHandlerAdminOverride(t *testing.T) {
	app := newTestApp(t)
	_, ownerToken := app.register(t, "ann", "ann@example.com", model.RoleStudent)
	_, adminToken := app.register(t, "root", "root@example.com", model.RoleAdmin)
	classID := app.bookingStore.addClass(5, 1000)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/classes/"+classID.String()+"/book", ownerToken, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d, want 201", rec.Code)
	}
	bookingID := dataField(t, envelope, "booking")["id"].(string)

	rec, envelope = app.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/cancel", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin cancel status = %d, want 200: %v", rec.Code, envelope)
	}
	if status := dataField(t, envelope, "booking")["status"]; status != "cancelled" {
		t.Errorf("status = %v, want cancelled", status)
	}
}

func TestListMineHandler(t *testing.T) {
	app := newTestApp(t)
	_, annToken := app.register(t, "ann", "ann@example.com", model.RoleStudent)
	_, bobToken := app.register(t, "bob", "bob@example.com", model.RoleStudent)
	classID := app.bookingStore.addClass(5, 1000)

	if rec, _ := app.request(t, http.MethodPost, "/api/v1/classes/"+classID.String()+"/book", annToken, nil); rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d, want 201", rec.Code)
	}

	rec, envelope := app.request(t, http.MethodGet, "/api/v1/bookings", annToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ann list status = %d, want 200", rec.Code)
	}
	bookings, _ := envelope["data"].(map[string]any)["bookings"].([]any)
	if len(bookings) != 1 {
		t.Errorf("ann sees %d bookings, want 1", len(bookings))
	}

	rec, envelope = app.request(t, http.MethodGet, "/api/v1/bookings", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bob list status = %d, want 200", rec.Code)
	}
	bookings, _ = envelope["data"].(map[string]any)["bookings"].([]any)
	if len(bookings) != 0 {
		t.Errorf("bob sees %d bookings, want 0", len(bookings))
	}
}
