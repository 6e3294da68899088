package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
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

func postLogin(t *testing.T, db *gorm.DB, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/admin/login", AdminLoginHandler(db))

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/admin/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return sqlmock.NewRows([]string{"id", "email", "name", "password_hash"}).
		AddRow(1, "admin@vitmii.so", "Administrator", string(hash))
}

func TestAdminLoginRequiresEmailAndPassword(t *testing.T) {
	w := postLogin(t, nil, gin.H{"email": "admin@vitmii.so"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAdminLoginUnknownEmail(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	w := postLogin(t, db, AdminLoginRequest{Email: "nobody@vitmii.so", Password: "whatever"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "admins"`).
		WillReturnRows(adminRows(t, "correct-password"))

	w := postLogin(t, db, AdminLoginRequest{Email: "admin@vitmii.so", Password: "wrong-password"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	var envelope map[string]any
	json.Unmarshal(w.Body.Bytes(), &envelope)
	if envelope["error"] != "Invalid email or password" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdminLoginIssuesAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newTestDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "admins"`).
		WillReturnRows(adminRows(t, "correct-password"))

	w := postLogin(t, db, AdminLoginRequest{Email: "admin@vitmii.so", Password: "correct-password"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		Admin map[string]any
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}
	if _, ok := resp.Admin["password_hash"]; ok {
		t.Error("password hash must not leak into the login response")
	}

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != "admin" || claims["admin_id"] != float64(1) {
		t.Errorf("unexpected claims: %v", claims)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
