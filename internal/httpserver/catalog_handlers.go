package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	bannerdomain "storefront/backend/internal/domain/banner"
	categorydomain "storefront/backend/internal/domain/category"
	productdomain "storefront/backend/internal/domain/product"
	bannerusecase "storefront/backend/internal/usecase/banner"
	productusecase "storefront/backend/internal/usecase/product"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		if query.Get("admin") == "true" {
			if !s.requireOperator(w, r) {
				return
			}
			products, err := s.productService.ListAll(ctx)
			if err != nil {
				writeFailure(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeSuccess(w, http.StatusOK, map[string]any{"products": products})
			return
		}

		in, err := productusecase.ParseListInput(query)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		result, err := s.productService.List(ctx, in)
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"products": result.Products,
			"page":     result.Page,
			"pages":    result.Pages,
			"total":    result.Total,
		})
	case http.MethodPost:
		if !s.requireOperator(w, r) {
			return
		}
		var payload productusecase.Input
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.productService.Create(ctx, payload)
		if err != nil {
			if errors.Is(err, productdomain.ErrDuplicateSlug) {
				writeFailure(w, http.StatusConflict, err.Error())
			} else {
				writeFailure(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeSuccess(w, http.StatusCreated, map[string]any{"product": item})
	case http.MethodPut:
		if !s.requireOperator(w, r) {
			return
		}
		var payload struct {
			ID string `json:"id"`
			productusecase.Input
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.productService.Update(ctx, payload.ID, payload.Input)
		if err != nil {
			switch {
			case errors.Is(err, productdomain.ErrNotFound):
				writeFailure(w, http.StatusNotFound, err.Error())
			case errors.Is(err, productdomain.ErrDuplicateSlug):
				writeFailure(w, http.StatusConflict, err.Error())
			default:
				writeFailure(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"product": item})
	case http.MethodDelete:
		if !s.requireOperator(w, r) {
			return
		}
		id, ok := decodeIDPayload(w, r)
		if !ok {
			return
		}
		if err := s.productService.Delete(ctx, id); err != nil {
			if errors.Is(err, productdomain.ErrNotFound) {
				writeFailure(w, http.StatusNotFound, err.Error())
			} else {
				writeFailure(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleProductBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/products/"), "/")
	if slug == "" {
		writeFailure(w, http.StatusBadRequest, "product slug required")
		return
	}

	item, err := s.productService.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, productdomain.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, err.Error())
		} else {
			writeFailure(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"product": item})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		categories, err := s.categoryService.List(ctx)
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"categories": categories})
	case http.MethodPost:
		if !s.requireOperator(w, r) {
			return
		}
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.categoryService.Create(ctx, payload.Name)
		if err != nil {
			if errors.Is(err, categorydomain.ErrAlreadyExists) {
				writeFailure(w, http.StatusConflict, "Category already exists")
			} else {
				writeFailure(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeSuccess(w, http.StatusCreated, map[string]any{"category": item})
	case http.MethodDelete:
		if !s.requireOperator(w, r) {
			return
		}
		id, ok := decodeIDPayload(w, r)
		if !ok {
			return
		}
		if err := s.categoryService.Delete(ctx, id); err != nil {
			if errors.Is(err, categorydomain.ErrNotFound) {
				writeFailure(w, http.StatusNotFound, err.Error())
			} else {
				writeFailure(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleBanners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		banners, err := s.bannerService.List(ctx)
		if err != nil {
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"banners": banners})
	case http.MethodPost:
		if !s.requireOperator(w, r) {
			return
		}
		var payload bannerusecase.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.bannerService.Create(ctx, payload)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSuccess(w, http.StatusCreated, map[string]any{"banner": item})
	case http.MethodDelete:
		if !s.requireOperator(w, r) {
			return
		}
		id, ok := decodeIDPayload(w, r)
		if !ok {
			return
		}
		if err := s.bannerService.Delete(ctx, id); err != nil {
			if errors.Is(err, bannerdomain.ErrNotFound) {
				writeFailure(w, http.StatusNotFound, err.Error())
			} else {
				writeFailure(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if !s.requireOperator(w, r) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	files := make([][]byte, 0, len(headers))
	for _, header := range headers {
		data, err := readUploadFile(header)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		files = append(files, data)
	}

	assets, err := s.uploadService.UploadAll(r.Context(), files)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"uploads": assets})
}

func readUploadFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func decodeIDPayload(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON payload")
		return "", false
	}
	if strings.TrimSpace(payload.ID) == "" {
		writeFailure(w, http.StatusBadRequest, "id is required")
		return "", false
	}
	return payload.ID, true
}
