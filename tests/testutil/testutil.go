// Package testutil holds helpers shared by the handler, service and
// integration tests: sqlmock-backed GORM handles, deterministic IDs, signed
// staff tokens and polling assertions.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lats/backend/internal/domain/identity"
	"github.com/lats/backend/internal/infrastructure/auth"
	"github.com/lats/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM handle whose queries go to sqlmock.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens a postgres-dialect GORM handle on sqlmock. The handle is
// closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// TestContext wraps a Gin test context with its recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a Gin context for method and path.
func NewTestContext(t *testing.T, method, path string) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return &TestContext{Context: c, Recorder: w, Engine: engine}
}

// AsStaff stores the values the JWT middleware would have set.
func (tc *TestContext) AsStaff(shopID, staffID uuid.UUID, role identity.Role) *TestContext {
	tc.Context.Set("jwt_tenant_id", shopID.String())
	tc.Context.Set("jwt_user_id", staffID.String())
	tc.Context.Set("jwt_role", role.String())
	return tc
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID derives a stable UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestShopID is the shop most tests run as.
func TestShopID() uuid.UUID {
	return NewTestUUID("test-shop")
}

// TestStaffID is the staff member most tests run as.
func TestStaffID() uuid.UUID {
	return NewTestUUID("test-staff")
}

// TestJWTConfig is a signing setup good for the length of any test.
func TestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-that-is-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "lats-test",
	}
}

// IssueToken signs an access token for staffID in shopID carrying the
// role's permissions.
func IssueToken(t *testing.T, jwt *auth.JWTService, shopID, staffID uuid.UUID, role identity.Role) string {
	t.Helper()

	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    shopID,
		UserID:      staffID,
		Username:    "staff-" + staffID.String()[:8],
		Role:        role.String(),
		Permissions: role.Permissions(),
	})
	require.NoError(t, err, "Failed to sign token")
	return pair.AccessToken
}

// BearerHeader formats token for the Authorization header.
func BearerHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// ContextWithTimeout creates a context that is cancelled when the test ends
// or after timeout, whichever comes first.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually polls condition until it holds or timeout passes.
func RequireEventually(t *testing.T, condition func() bool, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	require.Eventually(t, condition, timeout, 10*time.Millisecond, msgAndArgs...)
}

// AssertNever fails if condition becomes true within duration.
func AssertNever(t *testing.T, condition func() bool, duration, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if condition() {
			t.Fatalf("Condition unexpectedly became true: %v", msgAndArgs)
		}
		time.Sleep(interval)
	}
}
