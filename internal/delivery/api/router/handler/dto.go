package handler

import (
	"time"

	"marketplace/internal/domain/entity"
	"marketplace/internal/usecase"
)

// ProfileResponse is the public shape of a profile row.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryResponse is the public shape of a category row.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductResponse is the public shape of a product row. Price is rendered
// with two decimals to avoid float rounding on the client.
type ProductResponse struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Quantity    int       `json:"quantity"`
	CategoryID  *string   `json:"category_id"`
	ImageURL    *string   `json:"image_url"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Profile     *ProfileResponse `json:"profile"`
}

// PurchaseResponse reports the purchased quantity and the product afterwards.
type PurchaseResponse struct {
	Quantity int              `json:"quantity"`
	Product  *ProductResponse `json:"product"`
}

// DashboardResponse is the seller dashboard.
type DashboardResponse struct {
	Profile        *ProfileResponse   `json:"profile"`
	Products       []*ProductResponse `json:"products"`
	TotalProducts  int                `json:"total_products"`
	ActiveProducts int                `json:"active_products"`
	TotalUnits     int                `json:"total_units"`
	OutOfStock     int                `json:"out_of_stock"`
	InventoryValue string             `json:"inventory_value"`
}

// StoredObjectResponse describes an object in the product image bucket.
type StoredObjectResponse struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func newProfileResponse(p *entity.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}

	return &ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role.String(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func newCategoryResponses(categories []*entity.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, &CategoryResponse{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}

	return out
}

func newProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}

	resp := &ProductResponse{
		ID:          p.ID.String(),
		SellerID:    p.SellerID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(entity.PriceScale),
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		resp.CategoryID = &id
	}

	return resp
}

func newProductResponses(products []*entity.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}

	return out
}

func newAuthResponse(out *usecase.AuthOutput) *AuthResponse {
	return &AuthResponse{
		AccessToken: out.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   out.ExpiresAt,
		Profile:     newProfileResponse(out.Profile),
	}
}

func newDashboardResponse(d *entity.SellerDashboard) *DashboardResponse {
	return &DashboardResponse{
		Profile:        newProfileResponse(d.Profile),
		Products:       newProductResponses(d.Products),
		TotalProducts:  d.TotalProducts,
		ActiveProducts: d.ActiveProducts,
		TotalUnits:     d.TotalUnits,
		OutOfStock:     d.OutOfStock,
		InventoryValue: d.InventoryValue.StringFixed(entity.PriceScale),
	}
}

func newStoredObjectResponse(o *entity.StoredObject) *StoredObjectResponse {
	return &StoredObjectResponse{
		Bucket:      o.Bucket,
		Name:        o.Name,
		URL:         o.URL,
		ContentType: o.ContentType,
		Size:        o.Size,
	}
}
