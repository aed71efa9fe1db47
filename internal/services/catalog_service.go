package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"thebaker/internal/domain"
	"thebaker/internal/repos"
)

type CatalogService struct {
	Products *repos.ProductRepo
	Loc      *time.Location
}

func NewCatalogService(products *repos.ProductRepo, loc *time.Location) *CatalogService {
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogService{Products: products, Loc: loc}
}

// ListAvailable returns the menu for the given date (YYYY-MM-DD). A missing
// or unparsable date means today in the shop's time zone. Availability only
// filters this listing; order creation does not re-check it.
func (s *CatalogService) ListAvailable(date string) ([]domain.Product, error) {
	day := time.Now().In(s.Loc).Weekday()
	if date != "" {
		if t, err := time.ParseInLocation("2006-01-02", date, s.Loc); err == nil {
			day = t.Weekday()
		}
	}

	all, err := s.Products.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.Category.AvailableOn(day) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) ListAll() ([]domain.Product, error) {
	return s.Products.ListAll()
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Products.Get(id)
}

type ProductInput struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Category  string `json:"category"`
	Stock     int    `json:"stock"`
	ImagePath string `json:"imagePath"`
}

func (s *CatalogService) parse(in ProductInput) (domain.Product, error) {
	var p domain.Product
	if in.Name == "" {
		return p, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return p, fmt.Errorf("%w: bad price %q", domain.ErrValidation, in.Price)
	}
	cat := domain.Category(in.Category)
	if !cat.Valid() {
		return p, fmt.Errorf("%w: bad category %q", domain.ErrValidation, in.Category)
	}
	if in.Stock < 0 {
		return p, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	p = domain.Product{
		Name:      in.Name,
		Price:     price,
		Stock:     in.Stock,
		Category:  cat,
		ImagePath: in.ImagePath,
	}
	return p, nil
}

func (s *CatalogService) Create(in ProductInput) (domain.Product, error) {
	p, err := s.parse(in)
	if err != nil {
		return p, err
	}
	p.ID = uuid.NewString()
	if err := s.Products.Create(p); err != nil {
		return p, err
	}
	return s.Products.Get(p.ID)
}

func (s *CatalogService) Update(id string, in ProductInput) (domain.Product, error) {
	p, err := s.parse(in)
	if err != nil {
		return p, err
	}
	p.ID = id
	if err := s.Products.Update(p); err != nil {
		return p, err
	}
	return s.Products.Get(id)
}

// Delete hides the product from the menu; historical order lines keep their
// reference.
func (s *CatalogService) Delete(id string) error {
	return s.Products.SoftDelete(id)
}

// SetStock is the staff stocktake: it overwrites the count outright.
func (s *CatalogService) SetStock(id string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	return s.Products.SetStock(id, qty)
}
