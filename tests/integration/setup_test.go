// Package integration exercises the full HTTP stack, from routing and JWT
// auth through the service and store layers, over an in-memory database.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"moneta/internal/handlers"
	"moneta/internal/middleware"
	"moneta/internal/services"
	"moneta/internal/store"
	"moneta/internal/testutil"
	"moneta/internal/validator"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Register()
	os.Exit(m.Run())
}

// newTestServer builds the API router over an isolated test database, seeded
// with the global category set, exactly as the production wiring does.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	if err := store.SeedGlobalCategories(db); err != nil {
		t.Fatalf("failed to seed global categories: %v", err)
	}

	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(store.NewCategoryStore(db))

	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	router := gin.New()
	router.Use(middleware.ErrorHandler())

	auth := router.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	api.GET("/profile", authHandler.GetProfile)

	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/tree", categoryHandler.GetHierarchy)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.GET("/:id/dependencies", categoryHandler.GetDependencies)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	return router, db
}

var userCounter int

// registerUser creates a fresh user through the registration endpoint and
// returns their bearer token.
func registerUser(t *testing.T, router *gin.Engine) string {
	t.Helper()

	userCounter++
	w := request(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    fmt.Sprintf("user%d@example.com", userCounter),
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("registration failed with %d: %s", w.Code, w.Body.String())
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse registration response: %v", err)
	}
	if parsed.Token == "" {
		t.Fatal("expected registration to return a token")
	}
	return parsed.Token
}

// request performs an HTTP request against the test router, attaching the
// bearer token when given.
func request(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body, failing the test on malformed JSON.
func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}

// createCategory creates a category through the API and returns its ID.
func createCategory(t *testing.T, router *gin.Engine, token string, body map[string]interface{}) string {
	t.Helper()

	w := request(t, router, http.MethodPost, "/api/v1/categories", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("category creation failed with %d: %s", w.Code, w.Body.String())
	}

	var parsed struct {
		Category struct {
			ID string `json:"id"`
		} `json:"category"`
	}
	decode(t, w, &parsed)
	if parsed.Category.ID == "" {
		t.Fatal("expected created category to have an ID")
	}
	return parsed.Category.ID
}

// responseErrorCode pulls the machine-readable error code out of a failed
// response.
func responseErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var parsed struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, w, &parsed)
	return parsed.Error.Code
}
