package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"modqueue/internal/middleware"
	"modqueue/internal/models"
	"modqueue/internal/token"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret = "handler-test-secret"
	testIssuer = "modqueue"
)

// fakeMailer records deliveries and can be told to fail.
type fakeMailer struct {
	welcomes    []string
	confirms    []string
	failWelcome bool
	failConfirm bool
}

func (f *fakeMailer) SendWelcome(_ context.Context, email string) error {
	if f.failWelcome {
		return fmt.Errorf("welcome delivery failed")
	}
	f.welcomes = append(f.welcomes, email)
	return nil
}

func (f *fakeMailer) SendPasswordSetConfirmation(_ context.Context, email string) error {
	if f.failConfirm {
		return fmt.Errorf("confirmation delivery failed")
	}
	f.confirms = append(f.confirms, email)
	return nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Post{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newTestAPI wires the same route set the production router does.
func newTestAPI(t *testing.T) (*gin.Engine, *gorm.DB, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testDB(t)
	m := &fakeMailer{}

	authHandler := NewAuthHandler(db, testSecret, testIssuer, m)
	postHandler := NewPostHandler(db)
	userHandler := NewUserHandler(db, m)
	exportHandler := NewExportHandler(db)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/set-password", authHandler.SetPassword)

	protected := api.Group("")
	protected.Use(middleware.Auth(testSecret, testIssuer, db))
	protected.POST("/me/password", authHandler.SetMyPassword)
	protected.POST("/logout", authHandler.Logout)
	protected.POST("/posts", postHandler.CreatePost)
	protected.GET("/posts/my-posts", postHandler.MyPosts)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/users", userHandler.CreateUser)
	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:id/deactivate", userHandler.DeactivateUser)
	admin.GET("/posts", postHandler.AllPosts)
	admin.PATCH("/posts/:id/approve", postHandler.ApprovePost)
	admin.PATCH("/posts/:id/reject", postHandler.RejectPost)
	admin.GET("/posts/export/csv", exportHandler.ExportCSV)
	admin.GET("/posts/export/xlsx", exportHandler.ExportXLSX)

	return r, db, m
}

func mustCreateUser(t *testing.T, db *gorm.DB, email, password string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if password != "" {
		hash, err := util.HashPassword(password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		user.PasswordHash = &hash
		user.PasswordSet = true
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// bearerFor opens a session for the user and mints a matching token.
func bearerFor(t *testing.T, db *gorm.DB, user models.User) string {
	t.Helper()
	session := models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		LastActivity: time.Now(),
		IsValid:      true,
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	tok, err := token.Generate(testSecret, testIssuer, user.ID, user.Email, user.Role, session.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func doJSON(r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
