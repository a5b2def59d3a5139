package service

import "errors"

var (
	ErrItemNotFound  = errors.New("menu item not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)
