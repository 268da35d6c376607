package specification

import "gorm.io/gorm"

type ByOrderNumber struct {
	Number string
}

func (s ByOrderNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_number = ?", s.Number)
}

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByCustomerID struct {
	CustomerID string
}

func (s ByCustomerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerID)
}
