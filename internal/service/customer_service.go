package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"custcrm/internal/cache"
	apperrors "custcrm/internal/errors"
	"custcrm/internal/model"
	"custcrm/internal/repository"
	"custcrm/internal/storage"
)

const customerCacheTTL = 5 * time.Minute

// MediaStore persists uploaded images.
type MediaStore interface {
	SaveImage(namespace string, data []byte) (string, error)
	Read(ref string) ([]byte, error)
	Remove(ref string) error
}

// CustomerInput is a validated customer submission. Image carries a new
// upload; ClearImage removes the current one.
type CustomerInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	City       string
	State      string
	Country    string
	Image      []byte
	ClearImage bool
}

func (in CustomerInput) apply(c *model.Customer) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	c.City = in.City
	c.State = in.State
	c.Country = in.Country
}

// CustomerService exposes customer record operations.
type CustomerService interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*model.Customer, error)
	CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type customerService struct {
	repo  repository.CustomerRepository
	media MediaStore
	cache *cache.Client
	log   zerolog.Logger
}

// NewCustomerService builds a CustomerService with repository, media store and cache.
func NewCustomerService(repo repository.CustomerRepository, media MediaStore, cache *cache.Client, log zerolog.Logger) CustomerService {
	return &customerService{repo: repo, media: media, cache: cache, log: log}
}

func (s *customerService) cacheKey(id uint) string {
	return fmt.Sprintf("customer:%d", id)
}

// ListCustomers returns every customer, newest first.
func (s *customerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.repo.List(ctx, repository.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	var cached model.Customer
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), customer, customerCacheTTL)
	return customer, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	customer := &model.Customer{}
	in.apply(customer)

	if len(in.Image) > 0 {
		ref, err := s.saveImage(in.Image)
		if err != nil {
			return nil, err
		}
		customer.Image = &ref
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		s.removeImage(customer.Image)
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*model.Customer, error) {
	if in.ClearImage && len(in.Image) > 0 {
		return nil, apperrors.NewValidationError("image", "please either submit a file or check the clear checkbox, not both")
	}

	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(customer)

	previous := customer.Image
	switch {
	case len(in.Image) > 0:
		ref, err := s.saveImage(in.Image)
		if err != nil {
			return nil, err
		}
		customer.Image = &ref
	case in.ClearImage:
		customer.Image = nil
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		if customer.Image != previous {
			s.removeImage(customer.Image)
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	if customer.Image != previous {
		s.removeImage(previous)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uint) error {
	customer, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCustomerNotFound
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	s.removeImage(customer.Image)
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *customerService) find(ctx context.Context, id uint) (*model.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) saveImage(data []byte) (string, error) {
	ref, err := s.media.SaveImage(model.ImageNamespace, data)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", apperrors.NewValidationError("image", err.Error())
		}
		return "", fmt.Errorf("store image: %w", err)
	}
	return ref, nil
}

// removeImage deletes a stored photo best-effort.
func (s *customerService) removeImage(ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := s.media.Remove(*ref); err != nil {
		s.log.Warn().Err(err).Str("image", *ref).Msg("failed to remove customer image")
	}
}
