package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelbooking/database"
	"hotelbooking/handlers"
	"hotelbooking/models"
	"hotelbooking/services/booking"
	"hotelbooking/services/review"
	"hotelbooking/services/room"
	"hotelbooking/services/user"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminPassword = "admin-pass-123"

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	roomID  string
	bookSvc *booking.DefaultBookingService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	stores := database.NewMemoryStores()
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	userSvc := &user.DefaultUserService{Repo: stores.Users, Tokens: tokens, Logger: logger}
	if _, err := userSvc.EnsureAdmin(context.Background(), "admin@hotel.test", adminPassword); err != nil {
		t.Fatal(err)
	}
	bookSvc := &booking.DefaultBookingService{
		Rooms:    stores.Rooms,
		Bookings: stores.Bookings,
		Users:    stores.Users,
		Payments: booking.NewPaymentHandler(logger, booking.SimulatedGateway{}),
		Refs:     booking.NewReferenceGenerator(),
		Currency: "USD",
		Logger:   logger,
	}
	roomSvc := &room.DefaultRoomService{Repo: stores.Rooms, Bookings: stores.Bookings, Availability: bookSvc, Logger: logger}
	reviewSvc := &review.DefaultReviewService{
		Repo: stores.Reviews, Rooms: roomSvc, Bookings: stores.Bookings, Users: stores.Users, Logger: logger,
	}

	r, err := roomSvc.Create(context.Background(), models.Room{
		Name: "Deluxe Double", Category: "deluxe", PricePerNight: 10000, MaxGuests: 2, IsAvailable: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	hb := &handlers.HandlerBundle{
		Tokens:            tokens,
		Users:             stores.Users,
		MaxRequestsPerMin: 10000,
		Auth:              &handlers.AuthHandler{UserService: userSvc},
		Rooms:             &handlers.RoomHandler{RoomService: roomSvc, BookingService: bookSvc},
		Bookings:          &handlers.BookingHandler{BookingService: bookSvc},
		Admin:             &handlers.AdminHandler{BookingService: bookSvc, RoomService: roomSvc, UserService: userSvc},
		Reviews:           &handlers.ReviewHandler{ReviewService: reviewSvc},
		Health:            &handlers.HealthHandler{},
	}
	router, err := NewRouter(hb, logger)
	if err != nil {
		t.Fatal(err)
	}
	return &testServer{t: t, router: router, roomID: r.ID, bookSvc: bookSvc}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			s.t.Fatalf("%s %s: invalid JSON %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "guest-pass-1", "first_name": "Guest",
	})
	if code != http.StatusCreated {
		s.t.Fatalf("register %s: %d %v", email, code, body)
	}
	return body["token"].(string)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	if code != http.StatusOK {
		s.t.Fatalf("login %s: %d %v", email, code, body)
	}
	return body["token"].(string)
}

func (s *testServer) createBooking(token, in, out string) (int, map[string]any) {
	return s.do(http.MethodPost, "/api/bookings", token, gin.H{
		"room_id": s.roomID, "check_in": in, "check_out": out, "adults": 2,
	})
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("guest@hotel.test")

	if code, _ := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "GUEST@hotel.test", "password": "guest-pass-1", "first_name": "Again",
	}); code != http.StatusConflict {
		t.Fatalf("duplicate email: %d, want 409", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "guest@hotel.test", "password": "nope-nope"}); code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d, want 401", code)
	}

	code, me := s.do(http.MethodGet, "/api/auth/me", token, nil)
	if code != http.StatusOK || me["email"] != "guest@hotel.test" || me["role"] != models.RoleGuest {
		t.Fatalf("me: %d %v", code, me)
	}
	if _, leaked := me["password_hash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
	if code, _ := s.do(http.MethodGet, "/api/auth/me", "garbage", nil); code != http.StatusUnauthorized {
		t.Fatalf("invalid token: %d, want 401", code)
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")

	code, body := s.do(http.MethodPost, "/api/bookings/quote", guest, gin.H{
		"room_id": s.roomID, "check_in": "2026-01-01", "check_out": "2026-01-03",
	})
	if code != http.StatusOK || body["nights"] != 2.0 || body["net_price"] != 200.0 || body["tax_amount"] != 36.0 || body["total_price"] != 236.0 {
		t.Fatalf("quote: %d %v", code, body)
	}

	code, body = s.createBooking(guest, "2026-01-01", "2026-01-03")
	if code != http.StatusCreated {
		t.Fatalf("create: %d %v", code, body)
	}
	b := body["booking"].(map[string]any)
	id, ref := b["id"].(string), b["booking_reference"].(string)
	if b["booking_status"] != "pending" || b["total_price"] != 236.0 {
		t.Fatalf("unexpected booking %v", b)
	}

	if code, body := s.createBooking(guest, "2026-01-02", "2026-01-04"); code != http.StatusConflict {
		t.Fatalf("overlap: %d %v, want 409", code, body)
	}
	if code, _ := s.createBooking(guest, "2026-01-05", "2026-01-05"); code != http.StatusBadRequest {
		t.Fatalf("empty stay: %d, want 400", code)
	}

	code, body = s.do(http.MethodPost, "/api/rooms/check-availability", "", gin.H{
		"room_id": s.roomID, "check_in": "2026-01-03", "check_out": "2026-01-05",
	})
	if code != http.StatusOK || body["available"] != true {
		t.Fatalf("back-to-back availability: %d %v", code, body)
	}

	if code, _ := s.do(http.MethodGet, "/api/bookings/"+ref, guest, nil); code != http.StatusOK {
		t.Fatalf("get by reference: %d", code)
	}
	other := s.register("other@hotel.test")
	if code, _ := s.do(http.MethodGet, "/api/bookings/"+ref, other, nil); code != http.StatusNotFound {
		t.Fatalf("other guest get: %d, want 404", code)
	}

	code, body = s.do(http.MethodGet, "/api/bookings/my-bookings", guest, nil)
	if code != http.StatusOK || body["count"] != 1.0 {
		t.Fatalf("my bookings: %d %v", code, body)
	}

	if code, _ := s.do(http.MethodPatch, "/api/bookings/"+id+"/cancel", guest, gin.H{}); code != http.StatusUnauthorized {
		t.Fatalf("cancel without password: %d, want 401", code)
	}
	code, body = s.do(http.MethodPatch, "/api/bookings/"+id+"/cancel", guest, gin.H{"password": "guest-pass-1"})
	if code != http.StatusOK || body["booking"].(map[string]any)["booking_status"] != "cancelled" {
		t.Fatalf("cancel: %d %v", code, body)
	}
	if code, _ := s.createBooking(guest, "2026-01-02", "2026-01-04"); code != http.StatusCreated {
		t.Fatalf("rebook after cancel: %d, want 201", code)
	}
}

func TestCardPaymentConfirms(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")
	_, body := s.createBooking(guest, "2026-02-01", "2026-02-02")
	id := body["booking"].(map[string]any)["id"].(string)

	if code, _ := s.do(http.MethodPatch, "/api/bookings/"+id+"/payment", guest, gin.H{"payment_method": "bitcoin"}); code != http.StatusBadRequest {
		t.Fatalf("unknown method: %d, want 400", code)
	}
	code, body := s.do(http.MethodPatch, "/api/bookings/"+id+"/payment", guest, gin.H{"payment_method": "card"})
	if code != http.StatusOK {
		t.Fatalf("pay: %d %v", code, body)
	}
	b := body["booking"].(map[string]any)
	if b["booking_status"] != "confirmed" || b["payment_status"] != "completed" {
		t.Fatalf("after card payment: %v", b)
	}
	if code, _ := s.do(http.MethodPatch, "/api/bookings/"+id+"/payment", guest, gin.H{"payment_method": "card"}); code != http.StatusConflict {
		t.Fatalf("double payment: %d, want 409", code)
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")
	admin := s.login("admin@hotel.test", adminPassword)

	if code, _ := s.do(http.MethodGet, "/api/admin/stats", guest, nil); code != http.StatusForbidden {
		t.Fatalf("guest on admin route: %d, want 403", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/admin/stats", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous on admin route: %d, want 401", code)
	}

	code, body := s.do(http.MethodPost, "/api/admin/bookings", admin, gin.H{
		"room_id": s.roomID, "check_in": "2026-03-01", "check_out": "2026-03-04", "adults": 1,
	})
	if code != http.StatusCreated {
		t.Fatalf("admin create: %d %v", code, body)
	}
	b := body["booking"].(map[string]any)
	if b["booking_status"] != "confirmed" || b["payment_method"] != "cash" {
		t.Fatalf("admin booking should be confirmed cash: %v", b)
	}
	id := b["id"].(string)

	for _, step := range []struct{ path, want string }{
		{"/check-in", "checked_in"},
		{"/check-out", "checked_out"},
	} {
		code, body := s.do(http.MethodPatch, "/api/admin/bookings/"+id+step.path, admin, nil)
		if code != http.StatusOK || body["booking"].(map[string]any)["booking_status"] != step.want {
			t.Fatalf("%s: %d %v", step.path, code, body)
		}
	}
	if code, _ := s.do(http.MethodPatch, "/api/admin/bookings/"+id+"/confirm", admin, nil); code != http.StatusConflict {
		t.Fatalf("confirm after checkout: %d, want 409", code)
	}

	code, body = s.do(http.MethodGet, "/api/admin/stats", admin, nil)
	if code != http.StatusOK || body["total_bookings"] != 1.0 || body["confirmed_revenue"] != 354.0 {
		t.Fatalf("stats: %d %v", code, body)
	}

	code, body = s.do(http.MethodPost, "/api/admin/rooms", admin, gin.H{
		"name": "Sea View Suite", "price_per_night": 320.5, "max_guests": 4, "is_available": true,
	})
	if code != http.StatusCreated || body["slug"] != "sea-view-suite" {
		t.Fatalf("create room: %d %v", code, body)
	}
	roomID := body["id"].(string)
	code, body = s.do(http.MethodPatch, "/api/admin/rooms/"+roomID, admin, gin.H{"price_per_night": 300})
	if code != http.StatusOK || body["price_per_night"] != 300.0 {
		t.Fatalf("update room: %d %v", code, body)
	}
	if code, _ := s.do(http.MethodDelete, "/api/admin/rooms/"+roomID, admin, nil); code != http.StatusOK {
		t.Fatalf("delete room: %d", code)
	}
}

func TestRoomCatalog(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")
	if code, _ := s.createBooking(guest, "2026-04-10", "2026-04-12"); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}

	code, body := s.do(http.MethodGet, "/api/rooms?check_in=2026-04-11&check_out=2026-04-13", "", nil)
	if code != http.StatusOK || body["count"] != 0.0 {
		t.Fatalf("stay filter: %d %v", code, body)
	}
	code, body = s.do(http.MethodGet, "/api/rooms?max_price=150&sort=price_desc", "", nil)
	if code != http.StatusOK || body["count"] != 1.0 {
		t.Fatalf("price filter: %d %v", code, body)
	}
	if code, _ := s.do(http.MethodGet, "/api/rooms?check_in=2026-04-11", "", nil); code != http.StatusBadRequest {
		t.Fatalf("check_in without check_out: %d, want 400", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/rooms?check_in=11-04-2026&check_out=2026-04-13", "", nil); code != http.StatusBadRequest {
		t.Fatalf("malformed date: %d, want 400", code)
	}

	code, body = s.do(http.MethodGet, "/api/rooms/deluxe-double/availability?from=2026-04-01&to=2026-05-01", "", nil)
	if code != http.StatusOK {
		t.Fatalf("calendar: %d %v", code, body)
	}
	dates := body["unavailable_dates"].([]any)
	if len(dates) != 2 || dates[0] != "2026-04-10" || dates[1] != "2026-04-11" {
		t.Fatalf("calendar dates: %v", dates)
	}
	if code, _ := s.do(http.MethodGet, "/api/rooms/no-such-room", "", nil); code != http.StatusNotFound {
		t.Fatalf("missing room: %d, want 404", code)
	}
}

func TestPayAndCancelByReference(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")
	_, body := s.createBooking(guest, "2026-06-01", "2026-06-03")
	ref := body["booking"].(map[string]any)["booking_reference"].(string)

	code, body := s.do(http.MethodPatch, "/api/bookings/"+ref+"/payment", guest, gin.H{"payment_method": "card"})
	if code != http.StatusOK || body["booking"].(map[string]any)["booking_status"] != "confirmed" {
		t.Fatalf("pay by reference: %d %v", code, body)
	}
	code, body = s.do(http.MethodPatch, "/api/bookings/"+ref+"/cancel", guest, gin.H{"password": "guest-pass-1"})
	if code != http.StatusOK || body["booking"].(map[string]any)["booking_status"] != "cancelled" {
		t.Fatalf("cancel by reference: %d %v", code, body)
	}
	if code, _ := s.do(http.MethodPatch, "/api/bookings/HTL-NOPE-0000/cancel", guest, gin.H{"password": "guest-pass-1"}); code != http.StatusNotFound {
		t.Fatalf("unknown reference: %d, want 404", code)
	}
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")
	other := s.register("other@hotel.test")
	admin := s.login("admin@hotel.test", adminPassword)

	_, body := s.createBooking(guest, "2026-07-01", "2026-07-03")
	bookingID := body["booking"].(map[string]any)["id"].(string)

	if code, _ := s.do(http.MethodPost, "/api/reviews", "", gin.H{"room_id": s.roomID, "rating": 5}); code != http.StatusUnauthorized {
		t.Fatalf("anonymous review: %d, want 401", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/reviews", guest, gin.H{"room_id": s.roomID, "rating": 6}); code != http.StatusBadRequest {
		t.Fatalf("rating 6: %d, want 400", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/reviews", other, gin.H{
		"room_id": s.roomID, "booking_id": bookingID, "rating": 4,
	}); code != http.StatusForbidden {
		t.Fatalf("review with someone else's booking: %d, want 403", code)
	}

	code, body := s.do(http.MethodPost, "/api/reviews", guest, gin.H{
		"room_id": s.roomID, "booking_id": bookingID, "rating": 5, "comment": "  Lovely stay ",
	})
	if code != http.StatusCreated {
		t.Fatalf("create review: %d %v", code, body)
	}
	rv := body["review"].(map[string]any)
	if rv["is_approved"] != false || rv["comment"] != "Lovely stay" || rv["author_name"] != "Guest" {
		t.Fatalf("unexpected review %v", rv)
	}
	reviewID := rv["id"].(string)

	if code, _ := s.do(http.MethodPost, "/api/reviews", guest, gin.H{"room_id": s.roomID, "rating": 3}); code != http.StatusConflict {
		t.Fatalf("second review of the same room: %d, want 409", code)
	}

	code, body = s.do(http.MethodGet, "/api/reviews/room/deluxe-double", "", nil)
	if code != http.StatusOK || body["count"] != 0.0 {
		t.Fatalf("pending review must not be public: %d %v", code, body)
	}
	if code, _ := s.do(http.MethodGet, "/api/reviews/all", guest, nil); code != http.StatusForbidden {
		t.Fatalf("guest on moderation list: %d, want 403", code)
	}
	code, body = s.do(http.MethodGet, "/api/reviews/all?status=pending", admin, nil)
	if code != http.StatusOK || body["count"] != 1.0 {
		t.Fatalf("pending list: %d %v", code, body)
	}

	code, body = s.do(http.MethodPatch, "/api/reviews/"+reviewID+"/approve", admin, nil)
	if code != http.StatusOK || body["review"].(map[string]any)["is_approved"] != true {
		t.Fatalf("approve: %d %v", code, body)
	}
	code, body = s.do(http.MethodGet, "/api/reviews/room/"+s.roomID, "", nil)
	if code != http.StatusOK || body["count"] != 1.0 {
		t.Fatalf("approved review listed: %d %v", code, body)
	}

	if code, _ := s.do(http.MethodPost, "/api/reviews", other, gin.H{"room_id": s.roomID, "rating": 2}); code != http.StatusCreated {
		t.Fatalf("second guest review: %d", code)
	}
	code, body = s.do(http.MethodGet, "/api/reviews/room/deluxe-double/stats", "", nil)
	if code != http.StatusOK || body["total_reviews"] != 1.0 || body["average_rating"] != 5.0 || body["five_star"] != 1.0 {
		t.Fatalf("stats count approved reviews only: %d %v", code, body)
	}

	code, body = s.do(http.MethodPut, "/api/reviews/"+reviewID, admin, gin.H{"rating": 4})
	if code != http.StatusOK || body["review"].(map[string]any)["rating"] != 4.0 {
		t.Fatalf("admin update: %d %v", code, body)
	}
	if code, _ := s.do(http.MethodPut, "/api/reviews/"+reviewID, admin, gin.H{}); code != http.StatusBadRequest {
		t.Fatalf("empty update: %d, want 400", code)
	}
	if code, _ := s.do(http.MethodDelete, "/api/reviews/"+reviewID, admin, nil); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code, _ := s.do(http.MethodDelete, "/api/reviews/"+reviewID, admin, nil); code != http.StatusNotFound {
		t.Fatalf("delete twice: %d, want 404", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/reviews/room/no-such-room", "", nil); code != http.StatusNotFound {
		t.Fatalf("reviews of missing room: %d, want 404", code)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	guest := s.register("guest@hotel.test")

	code, body := s.do(http.MethodPut, "/api/users/profile", guest, gin.H{"city": " Lisbon ", "phone": "+351 555"})
	if code != http.StatusOK {
		t.Fatalf("update profile: %d %v", code, body)
	}
	u := body["user"].(map[string]any)
	if u["city"] != "Lisbon" || u["phone"] != "+351 555" || u["first_name"] != "Guest" {
		t.Fatalf("unexpected profile %v", u)
	}
	if code, _ := s.do(http.MethodPut, "/api/users/profile", guest, gin.H{}); code != http.StatusBadRequest {
		t.Fatalf("empty profile update: %d, want 400", code)
	}
	if code, _ := s.do(http.MethodPut, "/api/users/profile", guest, gin.H{"first_name": "   "}); code != http.StatusBadRequest {
		t.Fatalf("blank first name: %d, want 400", code)
	}
	if code, _ := s.do(http.MethodPut, "/api/users/profile", "", gin.H{"city": "Porto"}); code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile update: %d, want 401", code)
	}
	_, me := s.do(http.MethodGet, "/api/auth/me", guest, nil)
	if me["city"] != "Lisbon" {
		t.Fatalf("profile not persisted: %v", me)
	}
}

func TestAdminCreatesUser(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@hotel.test", adminPassword)
	guest := s.register("guest@hotel.test")

	newUser := gin.H{"email": "desk@hotel.test", "password": "desk-pass-1", "first_name": "Desk", "role": "admin"}
	if code, _ := s.do(http.MethodPost, "/api/admin/users", guest, newUser); code != http.StatusForbidden {
		t.Fatalf("guest creating user: %d, want 403", code)
	}
	code, body := s.do(http.MethodPost, "/api/admin/users", admin, newUser)
	if code != http.StatusCreated || body["user"].(map[string]any)["role"] != models.RoleAdmin {
		t.Fatalf("admin create user: %d %v", code, body)
	}
	if _, issued := body["token"]; issued {
		t.Fatal("admin-created account must not be signed in")
	}
	if code, _ := s.do(http.MethodPost, "/api/admin/users", admin, newUser); code != http.StatusConflict {
		t.Fatalf("duplicate email: %d, want 409", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/admin/users", admin, gin.H{
		"email": "x@hotel.test", "password": "desk-pass-1", "first_name": "X", "role": "owner",
	}); code != http.StatusBadRequest {
		t.Fatalf("unknown role: %d, want 400", code)
	}

	desk := s.login("desk@hotel.test", "desk-pass-1")
	if code, _ := s.do(http.MethodGet, "/api/admin/stats", desk, nil); code != http.StatusOK {
		t.Fatalf("new admin on admin route: %d", code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := s.do(http.MethodGet, "/api/health", "", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", code, body)
	}
}
