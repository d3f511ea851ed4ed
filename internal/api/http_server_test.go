package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tourbase/internal/auth"
	"tourbase/internal/config"
	"tourbase/internal/entity/db"
	"tourbase/internal/entity/dto"
	"tourbase/internal/model"
	repoSQL "tourbase/internal/model/sql"
	"tourbase/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy:                           schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := model.MigrateSchema(gormDB); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	repo := repoSQL.NewGormRepository(gormDB)

	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	cfg := config.Config{
		JWTSecret:            "test-secret-0123456789",
		JWTIssuer:            "tourbase-test",
		JWTExpirationMinutes: 60,
		DefaultCompanyID:     "main",
		StoragePublicBaseURL: "/media",
		// 首个注册账户的 ID 为 1，作为公共站点默认租户
		PublicDefaultRootUserID:  1,
		PublicAllowedRootUserIDs: []uint{1},
	}

	handler, err := NewHTTPHandler(cfg, repo, store, nil)
	if err != nil {
		t.Fatalf("failed to create http handler: %v", err)
	}

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, gormDB
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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

func registerTestAccount(t *testing.T, router *gin.Engine, email, company string) (string, dto.AccountSummary) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":       "Owner",
		"email":      email,
		"password":   "supersecret1",
		"company_id": company,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("registration failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal auth response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	return resp.Token, resp.Account
}

func quotaUsed(t *testing.T, router *gin.Engine, token, contentType string) int {
	t.Helper()
	w := doJSON(t, router, http.MethodGet, "/api/quota", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("quota endpoint failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Plan   string            `json:"plan"`
		Quotas []dto.QuotaStatus `json:"quotas"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal quota response: %v", err)
	}
	for _, q := range resp.Quotas {
		if q.ContentType == contentType {
			return q.Used
		}
	}
	t.Fatalf("quota for %s not reported", contentType)
	return 0
}

func itemID(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	var resp struct {
		Item map[string]interface{} `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal detail response: %v", err)
	}
	raw, ok := resp.Item["id"].(float64)
	if !ok || raw == 0 {
		t.Fatalf("expected item id in response: %s", w.Body.String())
	}
	return uint(raw)
}

func TestRegisterCreatePublishDeleteFlow(t *testing.T) {
	router, _ := newTestServer(t)

	token, account := registerTestAccount(t, router, "owner@example.com", "acme")
	if account.Role != "root_user" || !account.IsRootUser {
		t.Fatalf("expected first registrant to become root, got %+v", account)
	}

	// 同公司第二个注册者成为成员
	_, member := registerTestAccount(t, router, "staff@example.com", "acme")
	if member.Role != "admin" || member.RootUserID == nil || *member.RootUserID != account.ID {
		t.Fatalf("expected second registrant to attach to root %d, got %+v", account.ID, member)
	}

	// 未认证访问被拒绝
	w := doJSON(t, router, http.MethodGet, "/api/packages", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// 发布的套餐计入配额
	w = doJSON(t, router, http.MethodPost, "/api/packages", token, gin.H{
		"title":     "Island Hopper",
		"price":     "499",
		"published": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", w.Code, w.Body.String())
	}
	publishedID := itemID(t, w)
	if used := quotaUsed(t, router, token, "packages"); used != 1 {
		t.Fatalf("expected usage 1 after publish, got %d", used)
	}

	// 草稿不计入配额
	w = doJSON(t, router, http.MethodPost, "/api/packages", token, gin.H{
		"title": "Draft Trip",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("draft create failed with status %d: %s", w.Code, w.Body.String())
	}
	if used := quotaUsed(t, router, token, "packages"); used != 1 {
		t.Fatalf("expected draft to be exempt, got usage %d", used)
	}

	// 删除已发布内容释放配额
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/packages/%d", publishedID), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete failed with status %d: %s", w.Code, w.Body.String())
	}
	if used := quotaUsed(t, router, token, "packages"); used != 0 {
		t.Fatalf("expected usage back to 0 after delete, got %d", used)
	}
}

func TestQuotaDeniesPublishBeyondTrialLimit(t *testing.T) {
	router, _ := newTestServer(t)
	token, _ := registerTestAccount(t, router, "owner@example.com", "acme")

	// 试用版套餐上限为 3
	for i := 0; i < 3; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/packages", token, gin.H{
			"title":     fmt.Sprintf("Trip %d", i+1),
			"published": true,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d failed with status %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, router, http.MethodPost, "/api/packages", token, gin.H{
		"title":     "One Too Many",
		"published": true,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected quota denial, got %d: %s", w.Code, w.Body.String())
	}
	var resp APIError
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if resp.Code != ErrCodeQuotaExceeded {
		t.Fatalf("expected code %s, got %s", ErrCodeQuotaExceeded, resp.Code)
	}

	// 草稿仍然允许
	w = doJSON(t, router, http.MethodPost, "/api/packages", token, gin.H{"title": "Draft"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected draft create to succeed, got %d", w.Code)
	}
}

func TestPublicFacade(t *testing.T) {
	router, _ := newTestServer(t)
	token, _ := registerTestAccount(t, router, "owner@example.com", "acme")

	w := doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{
		"name":      "Safari",
		"published": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Hidden Draft",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("draft create failed with status %d: %s", w.Code, w.Body.String())
	}

	// 默认租户，只返回已发布内容
	w = doJSON(t, router, http.MethodGet, "/api/public/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public list failed with status %d: %s", w.Code, w.Body.String())
	}
	var listResp struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to unmarshal list response: %v", err)
	}
	if len(listResp.Items) != 1 {
		t.Fatalf("expected 1 published item, got %d", len(listResp.Items))
	}

	// slug 详情
	w = doJSON(t, router, http.MethodGet, "/api/public/categories/safari", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public detail by slug failed with status %d: %s", w.Code, w.Body.String())
	}

	// 草稿按不存在处理
	w = doJSON(t, router, http.MethodGet, "/api/public/categories/hidden-draft", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for draft, got %d", w.Code)
	}

	// 允许列表之外的租户按不存在处理
	w = doJSON(t, router, http.MethodGet, "/api/public/categories?rootUserId=999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for disallowed tenant, got %d", w.Code)
	}

	// 非法租户参数是请求错误
	w = doJSON(t, router, http.MethodGet, "/api/public/categories?rootUserId=abc", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed tenant id, got %d", w.Code)
	}
}

func TestPublicBookingSubmission(t *testing.T) {
	router, _ := newTestServer(t)
	token, _ := registerTestAccount(t, router, "owner@example.com", "acme")

	w := doJSON(t, router, http.MethodPost, "/api/public/bookings", "", gin.H{
		"customer_name": "Jane Doe",
		"email":         "jane@example.com",
		"travel_date":   "2026-09-15",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("booking failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal booking response: %v", err)
	}
	if !strings.HasPrefix(resp.Reference, "BK-") {
		t.Fatalf("expected booking reference, got %q", resp.Reference)
	}
	if resp.Status != "pending" {
		t.Fatalf("expected pending status, got %q", resp.Status)
	}

	// 引用不存在的套餐被拒绝
	w = doJSON(t, router, http.MethodPost, "/api/public/bookings", "", gin.H{
		"customer_name": "Jane Doe",
		"email":         "jane@example.com",
		"package_id":    9999,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown package, got %d", w.Code)
	}

	// 管理端可以看到并处理这笔预订
	w = doJSON(t, router, http.MethodGet, "/api/bookings", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("booking list failed with status %d: %s", w.Code, w.Body.String())
	}
	var listResp struct {
		Bookings []map[string]interface{} `json:"bookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to unmarshal booking list: %v", err)
	}
	if len(listResp.Bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(listResp.Bookings))
	}
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	router, _ := newTestServer(t)

	tokenA, _ := registerTestAccount(t, router, "alpha@example.com", "alpha")
	tokenB, _ := registerTestAccount(t, router, "beta@example.com", "beta")

	w := doJSON(t, router, http.MethodPost, "/api/destinations", tokenA, gin.H{
		"title": "Bali",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", w.Code, w.Body.String())
	}
	id := itemID(t, w)

	// 其他租户读不到，也删不掉
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/destinations/%d", id), tokenB, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant read, got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/destinations/%d", id), tokenB, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant delete, got %d", w.Code)
	}

	// 所属租户正常访问
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/destinations/%d", id), tokenA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected owner read to succeed, got %d", w.Code)
	}
}

func loginTestAccount(t *testing.T, router *gin.Engine, email, password string) dto.AuthResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal auth response: %v", err)
	}
	return resp
}

func TestLoginClearsStaleRootLink(t *testing.T) {
	router, gormDB := newTestServer(t)

	// 先注册一个真实的根账户，给遗留数据一个可指向的 ID
	_, owner := registerTestAccount(t, router, "owner@example.com", "acme")

	hash, err := auth.HashPassword("supersecret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	stale := owner.ID

	// 迁移前的遗留账户：角色缺失，却挂着别人的 root_user_id
	legacy := &db.Account{
		Name:         "Legacy Owner",
		Email:        "legacy@example.com",
		PasswordHash: hash,
		RootUserID:   &stale,
		CompanyID:    "legacy",
		TenantID:     "legacy",
		IsActive:     true,
	}
	if err := gormDB.Create(legacy).Error; err != nil {
		t.Fatalf("failed to seed legacy account: %v", err)
	}

	resp := loginTestAccount(t, router, "legacy@example.com", "supersecret1")
	if resp.Account.Role != db.RoleRootUser || !resp.Account.IsRootUser {
		t.Fatalf("expected legacy account healed into a root, got %+v", resp.Account)
	}
	if resp.Account.RootUserID != nil {
		t.Fatalf("expected stale root link cleared, got %d", *resp.Account.RootUserID)
	}

	var stored db.Account
	if err := gormDB.First(&stored, legacy.ID).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	if stored.RootUserID != nil {
		t.Fatalf("expected root_user_id NULL in storage, got %d", *stored.RootUserID)
	}

	// 字段齐全但仍残留 root_user_id 的根账户同样被修复
	tainted := &db.Account{
		Name:               "Tainted Root",
		Email:              "tainted@example.com",
		PasswordHash:       hash,
		Role:               db.RoleRootUser,
		IsRootUser:         true,
		RootUserID:         &stale,
		CompanyID:          "tainted",
		TenantID:           "tainted",
		SubscriptionPlan:   "trial",
		SubscriptionStatus: db.SubscriptionActive,
		IsActive:           true,
	}
	if err := gormDB.Create(tainted).Error; err != nil {
		t.Fatalf("failed to seed tainted account: %v", err)
	}

	resp = loginTestAccount(t, router, "tainted@example.com", "supersecret1")
	if resp.Account.RootUserID != nil {
		t.Fatalf("expected stale root link cleared, got %d", *resp.Account.RootUserID)
	}
	stored = db.Account{}
	if err := gormDB.First(&stored, tainted.ID).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	if stored.RootUserID != nil {
		t.Fatalf("expected root_user_id NULL in storage, got %d", *stored.RootUserID)
	}
}

func TestContentCreateValidation(t *testing.T) {
	router, _ := newTestServer(t)
	token, _ := registerTestAccount(t, router, "owner@example.com", "acme")

	// 缺必填字段直接拒绝，并返回字段级错误
	w := doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d: %s", w.Code, w.Body.String())
	}
	var resp APIError
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if resp.Code != ErrCodeValidation {
		t.Fatalf("expected code %s, got %s", ErrCodeValidation, resp.Code)
	}
	details, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected error details, got %v", resp.Details)
	}
	fields, ok := details["fields"].(map[string]interface{})
	if !ok || fields["name"] == nil {
		t.Fatalf("expected name in field errors, got %v", resp.Details)
	}

	// 纯空白的标题同样算缺失
	w = doJSON(t, router, http.MethodPost, "/api/packages", token, gin.H{"title": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank title, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDraftSaveRelaxesValidation(t *testing.T) {
	router, _ := newTestServer(t)
	token, _ := registerTestAccount(t, router, "owner@example.com", "acme")

	// 草稿跳过必填校验，补占位名并强制下架
	w := doJSON(t, router, http.MethodPost, "/api/categories?draft=true", token, gin.H{
		"published": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("draft create failed with status %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Item struct {
			ID        uint   `json:"id"`
			Name      string `json:"name"`
			Published bool   `json:"published"`
		} `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal detail response: %v", err)
	}
	if created.Item.Published {
		t.Fatal("expected draft to be forced unpublished")
	}
	if !strings.HasPrefix(created.Item.Name, "Untitled category") {
		t.Fatalf("expected placeholder name, got %q", created.Item.Name)
	}

	// 第二份未命名草稿不触发名称冲突
	w = doJSON(t, router, http.MethodPost, "/api/categories?draft=true", token, gin.H{})
	if w.Code != http.StatusCreated {
		t.Fatalf("second draft create failed with status %d: %s", w.Code, w.Body.String())
	}

	// 正常更新不允许清空必填字段
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/categories/%d", created.Item.ID), token, gin.H{
		"name": "",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blanked name, got %d: %s", w.Code, w.Body.String())
	}

	// 草稿更新把已发布内容强制下架
	w = doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{
		"name":      "Safari",
		"published": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", w.Code, w.Body.String())
	}
	publishedID := itemID(t, w)

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/categories/%d?draft=true", publishedID), token, gin.H{
		"description": "work in progress",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("draft update failed with status %d: %s", w.Code, w.Body.String())
	}
	var updated struct {
		Item struct {
			Published bool `json:"published"`
		} `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to unmarshal detail response: %v", err)
	}
	if updated.Item.Published {
		t.Fatal("expected draft update to force unpublish")
	}
}
