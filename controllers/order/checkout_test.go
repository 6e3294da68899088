package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/HarrisYahya/vitmii/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return db, mock
}

func checkoutRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/checkout/place", CheckoutHandler(db))
	return r
}

func postCheckout(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/checkout/place", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setGatewayEnv(t *testing.T, apiURL, env string) {
	t.Helper()
	t.Setenv("WAAFIPAY_MERCHANT_UID", "M0912345")
	t.Setenv("WAAFIPAY_API_USER_ID", "1000123")
	t.Setenv("WAAFIPAY_API_KEY", "API-TESTKEY")
	t.Setenv("WAAFIPAY_API_URL", apiURL)
	t.Setenv("WAAFIPAY_ENV", env)
}

func TestCartSubtotal(t *testing.T) {
	items := []models.CartItem{
		{Price: 2.5, Quantity: 2},
		{Price: 1.25, Quantity: 4},
	}
	if got := CartSubtotal(items); got != 10 {
		t.Errorf("CartSubtotal = %v, want 10", got)
	}
	if got := CartSubtotal(nil); got != 0 {
		t.Errorf("CartSubtotal(nil) = %v, want 0", got)
	}
}

func TestDeliveryFeeFor(t *testing.T) {
	cases := map[string]float64{
		"Bondhere":    1.5,
		"Hodan":       2,
		"Waberi":      1,
		"Hamar Weyne": 1.5,
		"Atlantis":    0, // unknown district
		"":            0,
	}
	for district, want := range cases {
		if got := DeliveryFeeFor(district); got != want {
			t.Errorf("DeliveryFeeFor(%q) = %v, want %v", district, got, want)
		}
	}
}

func TestCheckoutRejectsMissingPhoneOrDistrict(t *testing.T) {
	// Validation happens before any DB or gateway work, so neither is wired.
	r := checkoutRouter(nil)

	for _, body := range []CheckoutRequest{
		{GuestID: "guest_1", Phone: "", District: "Hodan"},
		{GuestID: "guest_1", Phone: "0617733690", District: ""},
	} {
		w := postCheckout(t, r, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %+v, got %d", body, w.Code)
		}
	}
}

func TestCheckoutRejectsInvalidPhone(t *testing.T) {
	r := checkoutRouter(nil)
	w := postCheckout(t, r, CheckoutRequest{GuestID: "guest_1", Phone: "9999", District: "Hodan"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "guest_id"}))

	w := postCheckout(t, checkoutRouter(db), CheckoutRequest{
		GuestID: "guest_1", Phone: "0617733690", District: "Hodan",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var envelope map[string]any
	json.Unmarshal(w.Body.Bytes(), &envelope)
	if envelope["message"] != "Cart is empty" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckoutRejectsDeliveryBelowMinimum(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "guest_id"}).AddRow(7, "guest_1"))
	mock.ExpectQuery(`SELECT (.+) FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "name", "price", "unit", "quantity"}).
			AddRow(1, 7, 3, "Vitamin C", 2.0, "pcs", 2)) // subtotal 4.00 < 5.00

	w := postCheckout(t, checkoutRouter(db), CheckoutRequest{
		GuestID: "guest_1", Phone: "0617733690", District: "Hodan", Delivery: true,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"responseCode": "2001", "responseMsg": "RCS_SUCCESS"})
	}))
	defer gateway.Close()
	setGatewayEnv(t, gateway.URL, "live")

	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "guest_id"}).AddRow(7, "guest_1"))
	mock.ExpectQuery(`SELECT (.+) FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "name", "price", "unit", "quantity"}).
			AddRow(1, 7, 3, "Vitamin C", 2.5, "pcs", 2))

	// order insert inside the transaction
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	// cart cleared only after the gateway confirmed
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "cart_items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postCheckout(t, checkoutRouter(db), CheckoutRequest{
		GuestID: "guest_1", Phone: "0617733690", District: "Bondhere", Delivery: true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var envelope map[string]any
	json.Unmarshal(w.Body.Bytes(), &envelope)
	if envelope["status"] != "SUCCESS" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
	// subtotal 5.00 + Bondhere fee 1.50
	if envelope["total"] != 6.5 {
		t.Fatalf("total = %v, want 6.5", envelope["total"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCheckoutDeclinedPaymentKeepsCart(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"responseCode": "5310", "responseMsg": "Payer rejected"})
	}))
	defer gateway.Close()
	setGatewayEnv(t, gateway.URL, "live")

	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "guest_id"}).AddRow(7, "guest_1"))
	mock.ExpectQuery(`SELECT (.+) FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "name", "price", "unit", "quantity"}).
			AddRow(1, 7, 3, "Vitamin C", 2.5, "pcs", 2))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(22))
	mock.ExpectCommit()
	// no DELETE: the cart must survive a declined payment

	w := postCheckout(t, checkoutRouter(db), CheckoutRequest{
		GuestID: "guest_1", Phone: "0617733690", District: "Bondhere",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var envelope map[string]any
	json.Unmarshal(w.Body.Bytes(), &envelope)
	if envelope["status"] != "ERROR" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
