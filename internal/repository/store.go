package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/leasebook/internal/database"
	"gorm.io/gorm"
)

// ErrConstraintViolation reports a store-level integrity failure such as a
// foreign key still referencing a row being deleted, or a duplicate period.
var ErrConstraintViolation = errors.New("constraint violation")

// Store hands out units of work. Every public service operation opens exactly
// one and the store releases it on every exit path.
type Store interface {
	// View runs fn against a non-transactional session. Use it for reads only.
	View(ctx context.Context, fn func(uow UnitOfWork) error) error

	// Atomic runs fn inside one transaction. It commits when fn returns nil and
	// rolls back every write otherwise.
	Atomic(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// UnitOfWork gives access to every repository bound to the same session.
type UnitOfWork interface {
	Properties() PropertyRepository
	Units() UnitRepository
	Leases() LeaseRepository
	Tenants() TenantRepository
	Payments() PaymentRepository
	Amendments() AmendmentRepository
	Alerts() AlertRepository
	Invoices() InvoiceRepository
}

// gormStore is the concrete implementation of Store.
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store over the given database.
func NewStore(db *database.Database) Store {
	return &gormStore{db: db.Gorm}
}

func (s *gormStore) View(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return translate(fn(newUnitOfWork(s.db.WithContext(ctx))))
}

func (s *gormStore) Atomic(ctx context.Context, fn func(uow UnitOfWork) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newUnitOfWork(tx))
	})
	return translate(err)
}

// unitOfWork binds every repository to one gorm session.
type unitOfWork struct {
	db *gorm.DB
}

func newUnitOfWork(db *gorm.DB) *unitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Properties() PropertyRepository  { return &propertyRepository{db: u.db} }
func (u *unitOfWork) Units() UnitRepository           { return &unitRepository{db: u.db} }
func (u *unitOfWork) Leases() LeaseRepository         { return &leaseRepository{db: u.db} }
func (u *unitOfWork) Tenants() TenantRepository       { return &tenantRepository{db: u.db} }
func (u *unitOfWork) Payments() PaymentRepository     { return &paymentRepository{db: u.db} }
func (u *unitOfWork) Amendments() AmendmentRepository { return &amendmentRepository{db: u.db} }
func (u *unitOfWork) Alerts() AlertRepository         { return &alertRepository{db: u.db} }
func (u *unitOfWork) Invoices() InvoiceRepository     { return &invoiceRepository{db: u.db} }

// translate maps driver constraint failures onto ErrConstraintViolation while
// keeping the driver error in the chain.
func translate(err error) error {
	if err == nil || errors.Is(err, ErrConstraintViolation) {
		return err
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) || isConstraintMessage(err) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}

// isConstraintMessage catches driver errors the dialect did not translate.
func isConstraintMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "duplicate key value")
}

// first loads one row by primary key and returns nil, nil when it is absent.
func first[T any](db *gorm.DB, id uint) (*T, error) {
	var row T
	err := db.First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
