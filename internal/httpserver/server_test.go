package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/backend/internal/config"
	authdomain "storefront/backend/internal/domain/auth"
	bannerdomain "storefront/backend/internal/domain/banner"
	categorydomain "storefront/backend/internal/domain/category"
	productdomain "storefront/backend/internal/domain/product"
	"storefront/backend/internal/infrastructure/token"
	authusecase "storefront/backend/internal/usecase/auth"
	bannerusecase "storefront/backend/internal/usecase/banner"
	categoryusecase "storefront/backend/internal/usecase/category"
	productusecase "storefront/backend/internal/usecase/product"
	uploadusecase "storefront/backend/internal/usecase/upload"
)

type memProductRepo struct {
	seq   int
	items map[string]*productdomain.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[string]*productdomain.Product)}
}

func (r *memProductRepo) Create(ctx context.Context, p *productdomain.Product) error {
	for _, existing := range r.items {
		if existing.Slug == p.Slug {
			return productdomain.ErrDuplicateSlug
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("%024d", r.seq)
	clone := *p
	r.items[p.ID] = &clone
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id string) (*productdomain.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, productdomain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memProductRepo) GetBySlug(ctx context.Context, slug string) (*productdomain.Product, error) {
	for _, p := range r.items {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, productdomain.ErrNotFound
}

func (r *memProductRepo) List(ctx context.Context, query productdomain.ListQuery) ([]*productdomain.Product, int64, error) {
	var matched []*productdomain.Product
	for _, p := range r.items {
		if !query.IncludeUnlisted && !p.IsListed {
			continue
		}
		if query.Category != "" && !hasString(p.Category, query.Category) {
			continue
		}
		if query.MaxPrice != nil && p.Price > *query.MaxPrice {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch query.Sort {
		case productdomain.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case productdomain.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case productdomain.SortNameAsc:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case productdomain.SortNameDesc:
			if a.Name != b.Name {
				return a.Name > b.Name
			}
		case productdomain.SortNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	offset := query.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memProductRepo) ListAll(ctx context.Context) ([]*productdomain.Product, error) {
	var all []*productdomain.Product
	for _, p := range r.items {
		clone := *p
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, nil
}

func (r *memProductRepo) Replace(ctx context.Context, p *productdomain.Product) error {
	if _, ok := r.items[p.ID]; !ok {
		return productdomain.ErrNotFound
	}
	for id, existing := range r.items {
		if id != p.ID && existing.Slug == p.Slug {
			return productdomain.ErrDuplicateSlug
		}
	}
	clone := *p
	r.items[p.ID] = &clone
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return productdomain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func hasString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

type memCategoryRepo struct {
	seq   int
	items map[string]*categorydomain.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{items: make(map[string]*categorydomain.Category)}
}

func (r *memCategoryRepo) Create(ctx context.Context, c *categorydomain.Category) error {
	for _, existing := range r.items {
		if existing.Name == c.Name {
			return categorydomain.ErrAlreadyExists
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("%024d", r.seq)
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *memCategoryRepo) List(ctx context.Context) ([]*categorydomain.Category, error) {
	var all []*categorydomain.Category
	for _, c := range r.items {
		clone := *c
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return categorydomain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memBannerRepo struct {
	seq   int
	items map[string]*bannerdomain.Banner
}

func newMemBannerRepo() *memBannerRepo {
	return &memBannerRepo{items: make(map[string]*bannerdomain.Banner)}
}

func (r *memBannerRepo) Create(ctx context.Context, b *bannerdomain.Banner) error {
	r.seq++
	b.ID = fmt.Sprintf("%024d", r.seq)
	clone := *b
	r.items[b.ID] = &clone
	return nil
}

func (r *memBannerRepo) GetByID(ctx context.Context, id string) (*bannerdomain.Banner, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, bannerdomain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBannerRepo) List(ctx context.Context) ([]*bannerdomain.Banner, error) {
	var all []*bannerdomain.Banner
	for _, b := range r.items {
		clone := *b
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Order != all[j].Order {
			return all[i].Order < all[j].Order
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (r *memBannerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return bannerdomain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memUserRepo struct {
	items map[string]*authdomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{items: make(map[string]*authdomain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *authdomain.User) error {
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return authdomain.ErrEmailExists
		}
	}
	clone := *u
	r.items[u.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	for _, u := range r.items {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, authdomain.ErrUserNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*authdomain.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, authdomain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*authdomain.User, error) {
	var all []*authdomain.User
	for _, u := range r.items {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return all, nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return authdomain.ErrUserNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	u, ok := r.items[id]
	if !ok {
		return authdomain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	return nil
}

type noopAssets struct {
	destroyed []string
}

func (a *noopAssets) Destroy(ctx context.Context, publicID string) error {
	a.destroyed = append(a.destroyed, publicID)
	return nil
}

type memUploadStore struct {
	seq int
}

func (s *memUploadStore) Upload(ctx context.Context, data []byte) (uploadusecase.Asset, error) {
	s.seq++
	id := fmt.Sprintf("storefront_uploads/test-%d", s.seq)
	return uploadusecase.Asset{URL: "https://cdn.example/" + id + ".webp", PublicID: id}, nil
}

func (s *memUploadStore) Destroy(ctx context.Context, publicID string) error {
	return nil
}

type testEnv struct {
	server   *Server
	products *memProductRepo
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := newMemProductRepo()
	assets := &noopAssets{}
	tokens := token.NewJWTManager("test-secret", time.Hour, "storefront")

	cfg := config.Config{
		HTTPPort:       "8080",
		AllowedOrigins: []string{"*"},
	}
	srv := NewServer(cfg, Services{
		Auth:     authusecase.NewService(newMemUserRepo(), tokens),
		Product:  productusecase.NewService(products, assets),
		Category: categoryusecase.NewService(newMemCategoryRepo()),
		Banner:   bannerusecase.NewService(newMemBannerRepo(), assets),
		Upload:   uploadusecase.NewService(&memUploadStore{}),
	})

	env := &testEnv{server: srv, products: products}

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "admin@example.com",
		"password": "s3cret",
		"name":     "Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "admin@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	env.token = login.Token

	return env
}

func (e *testEnv) do(t *testing.T, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func productPayload(slug string, price float64) map[string]any {
	return map[string]any{
		"name":  "Product " + slug,
		"slug":  slug,
		"price": price,
		"images": []map[string]any{
			{"url": "https://cdn.example/" + slug + ".webp", "public_id": "storefront_uploads/" + slug},
		},
		"category": []string{"Supplements"},
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "admin@example.com",
		"password": "other",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/products", env.token, productPayload("whey-vanilla", 450))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	created := body["product"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, true, created["isListed"])

	rec = env.do(t, http.MethodGet, "/products/whey-vanilla", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)["product"].(map[string]any)
	assert.Equal(t, "whey-vanilla", fetched["slug"])

	update := productPayload("whey-vanilla", 399)
	update["id"] = id
	rec = env.do(t, http.MethodPut, "/products", env.token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["product"].(map[string]any)
	assert.Equal(t, 399.0, updated["price"])

	rec = env.do(t, http.MethodDelete, "/products", env.token, map[string]any{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/whey-vanilla", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestListingEnvelope(t *testing.T) {
	env := newTestEnv(t)

	for i := 1; i <= 13; i++ {
		slug := fmt.Sprintf("item-%02d", i)
		rec := env.do(t, http.MethodPost, "/products", env.token, productPayload(slug, float64(100+i)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/products?page=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 3.0, body["page"])
	assert.Equal(t, 3.0, body["pages"])
	assert.Equal(t, 13.0, body["total"])
	assert.Len(t, body["products"].([]any), 1)

	rec = env.do(t, http.MethodGet, "/products?page=9", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, 13.0, body["total"])
	assert.Empty(t, body["products"].([]any))
}

func TestListingRejectsBadPaging(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/products?limit=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	rec = env.do(t, http.MethodGet, "/products?page=0", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnlistedHiddenFromPublicListing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/products", env.token, productPayload("visible", 100))
	require.Equal(t, http.StatusCreated, rec.Code)

	hidden := productPayload("hidden", 200)
	hidden["isListed"] = false
	rec = env.do(t, http.MethodPost, "/products", env.token, hidden)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decodeBody(t, rec)["total"])

	rec = env.do(t, http.MethodGet, "/products?admin=true", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	rec = env.do(t, http.MethodGet, "/products?admin=true", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["products"].([]any), 2)
}

func TestMutationsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/products", "", productPayload("p", 1))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	rec = env.do(t, http.MethodPost, "/products", "garbage-token", productPayload("p", 1))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodDelete, "/categories", "", map[string]any{"id": "x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteMissingProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/products", env.token, map[string]any{"id": "does-not-exist"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestCategoryConflict(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/categories", env.token, map[string]any{"name": "Supplements"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/categories", env.token, map[string]any{"name": "Supplements"})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Category already exists", body["error"])
}

func TestBannerDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/banners", env.token, map[string]any{
		"image": map[string]any{
			"url":       "https://cdn.example/banner.webp",
			"public_id": "storefront_uploads/banner",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	banner := decodeBody(t, rec)["banner"].(map[string]any)
	assert.Equal(t, "/shop", banner["link"])
	assert.Equal(t, 0.0, banner["order"])
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("files", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uploads := decodeBody(t, rec)["uploads"].([]any)
	require.Len(t, uploads, 1)
	asset := uploads[0].(map[string]any)
	assert.NotEmpty(t, asset["url"])
	assert.NotEmpty(t, asset["public_id"])
}

func TestUploadWithoutFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("note", "nothing attached"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no file uploaded", decodeBody(t, rec)["error"])
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/users/change-password", env.token, map[string]any{
		"current_password": "s3cret",
		"new_password":     "even-m0re-s3cret",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "admin@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "admin@example.com",
		"password": "even-m0re-s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
