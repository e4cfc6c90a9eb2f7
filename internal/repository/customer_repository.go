package repository

import (
	"context"

	"gorm.io/gorm"

	"custcrm/internal/model"
)

// CustomerOrder selects the listing order.
type CustomerOrder int

const (
	// NewestFirst orders by creation time, most recent first.
	NewestFirst CustomerOrder = iota
	// ByFirstName orders alphabetically by first name.
	ByFirstName
)

// CustomerRepository defines customer persistence operations.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	List(ctx context.Context, order CustomerOrder) ([]model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository builds a GORM-backed repository.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, order CustomerOrder) ([]model.Customer, error) {
	q := r.db.WithContext(ctx)
	switch order {
	case ByFirstName:
		q = q.Order("first_name ASC").Order("id ASC")
	default:
		q = q.Order("created_at DESC").Order("id DESC")
	}

	var customers []model.Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
