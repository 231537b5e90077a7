package handler

import "github.com/99minutos/storefront/internal/core/domain"

type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required"`
	Section     string `json:"section"     validate:"omitempty,oneof=shop admin"`
	CallbackURL string `json:"callbackUrl"`
}

type loginResponse struct {
	User     *domain.User    `json:"user"`
	Identity domain.Identity `json:"identity"`
	Redirect string          `json:"redirect"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type pageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type productListResponse struct {
	Items []domain.Product `json:"items"`
	Meta  pageMeta         `json:"meta"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type orderListResponse struct {
	Items []domain.Order `json:"items"`
	Meta  pageMeta       `json:"meta"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

type pageResponse struct {
	Page        string           `json:"page"`
	User        *domain.Identity `json:"user,omitempty"`
	CallbackURL string           `json:"callbackUrl,omitempty"`
}

func toPageMeta(p domain.Page) pageMeta {
	return pageMeta{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}
