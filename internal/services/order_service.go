package services

import (
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stylespizza/pizza-api/internal/models"
)

// OrderService is the order workflow: transactional creation and deletion of
// an order with its items, authorized retrieval and the three independent
// status-axis updates.
type OrderService interface {
	// CreateOrder validates the request, computes the total and persists the
	// order header and its items in a single transaction. It returns the
	// created header without items.
	CreateOrder(userID uint, req *models.CreateOrderRequest) (*models.Order, error)
	// GetOrder fetches an order with its items and the owner's email.
	// Existence is checked before ownership, so a missing id is ErrNotFound
	// even for callers who would not own it; non-admin callers who do not
	// own an existing order get ErrForbidden.
	GetOrder(orderID, requesterID uint, requesterRole models.Role) (*models.Order, error)
	// ListOrders returns a page of all orders, optionally filtered by order
	// status, with the total matching count.
	ListOrders(page, limit int, status models.OrderStatus) ([]models.Order, int64, error)
	// ListOrdersByCustomer returns a page of the customer's orders. Zero
	// orders yield an empty page, not an error.
	ListOrdersByCustomer(customerID uint, page, limit int) ([]models.Order, int64, error)
	// UpdateStatus, UpdatePaymentStatus and UpdateDeliveryStatus each
	// validate the value against its own enumeration and apply a
	// single-column update. The axes are independent.
	UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(orderID uint, status models.PaymentStatus) (*models.Order, error)
	UpdateDeliveryStatus(orderID uint, status models.DeliveryStatus) (*models.Order, error)
	// DeleteOrder removes the order's items and its header in one
	// transaction; a missing header rolls the item deletion back.
	DeleteOrder(orderID uint) error
}

type orderService struct {
	db *gorm.DB
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) CreateOrder(userID uint, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, ErrDeliveryAddressRequired
	}

	// The unit price of each line is a client-submitted snapshot; the total
	// is derived from it, not re-priced from the catalog.
	var total float64
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Price <= 0 {
			return nil, ErrInvalidOrderItems
		}
		total += item.Price * float64(item.Quantity)
	}

	order := &models.Order{
		UserID:              userID,
		TotalAmount:         total,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		Status:              models.OrderStatusPending,
		PaymentStatus:       models.PaymentStatusPending,
		DeliveryStatus:      models.DeliveryStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range req.Items {
			orderItem := models.OrderItem{
				OrderID:  order.ID,
				PizzaID:  item.PizzaID,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Order creation failed")
		return nil, err
	}

	return order, nil
}

func (s *orderService) GetOrder(orderID, requesterID uint, requesterRole models.Role) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if requesterRole != models.RoleAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}

	var owner models.User
	if err := s.db.Select("email").First(&owner, order.UserID).Error; err == nil {
		order.CustomerEmail = owner.Email
	}

	return &order, nil
}

func (s *orderService) ListOrders(page, limit int, status models.OrderStatus) ([]models.Order, int64, error) {
	page, limit = normalizePage(page, limit, 10)

	query := s.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Select("orders.*, users.email AS customer_email").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (s *orderService) ListOrdersByCustomer(customerID uint, page, limit int) ([]models.Order, int64, error) {
	page, limit = normalizePage(page, limit, 10)

	query := s.db.Model(&models.Order{}).Where("user_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (s *orderService) UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.updateColumn(orderID, "status", status)
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status models.PaymentStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.updateColumn(orderID, "payment_status", status)
}

func (s *orderService) UpdateDeliveryStatus(orderID uint, status models.DeliveryStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.updateColumn(orderID, "delivery_status", status)
}

func (s *orderService) updateColumn(orderID uint, column string, value interface{}) (*models.Order, error) {
	result := s.db.Model(&models.Order{}).Where("id = ?", orderID).Update(column, value)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) DeleteOrder(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Order{}, orderID)
		if result.Error != nil {
			return result.Error
		}
		// Returning an error here rolls the item deletion back, so a
		// missing order leaves no partial state.
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// normalizePage clamps page/limit to sane values, defaulting limit to
// defaultLimit when unset.
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
