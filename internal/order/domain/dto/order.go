package dto

import (
	"time"

	"mealdesk/internal/order/domain/models"
)

type CreateOrderRequest struct {
	EmployeeID int64  `json:"employee_id"`
	MealID     int64  `json:"meal_id"`
	OrderDate  string `json:"order_date"` // YYYY-MM-DD
	Quantity   int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	MealID     int64  `json:"meal_id"`
	OrderDate  string `json:"order_date"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"total_price"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func ToOrderResponse(order models.MealOrder) OrderResponse {
	return OrderResponse{
		ID:         order.ID,
		EmployeeID: order.EmployeeID,
		MealID:     order.MealID,
		OrderDate:  order.OrderDate.Format("2006-01-02"),
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice.StringFixed(2),
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
}

func ToOrderResponses(orders []models.MealOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}
