package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/app/services"
	"mealdesk/internal/order/domain/dto"
	"mealdesk/internal/order/domain/models"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

func (oh *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			oh.mylog.Action("parse_failed").Error("Failed to parse order request", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		orderDate, err := time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("order_date must be YYYY-MM-DD"))
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		order, err := oh.orderService.Create(ctx, req.EmployeeID, req.MealID, orderDate, req.Quantity)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusCreated, dto.ToOrderResponse(order))
	}
}

func (oh *OrderHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		order, err := oh.orderService.GetByID(ctx, id)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.ToOrderResponse(order))
	}
}

func (oh *OrderHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		if err := oh.orderService.Cancel(ctx, id); err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (oh *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		var req dto.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		order, err := oh.orderService.UpdateStatus(ctx, id, models.OrderStatus(req.Status))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.ToOrderResponse(order))
	}
}

// List serves both projections: ?employee_id=N and ?date=YYYY-MM-DD.
func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		if v := r.URL.Query().Get("employee_id"); v != "" {
			employeeID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, errors.New("employee_id must be an integer"))
				return
			}
			orders, err := oh.orderService.ListByEmployee(ctx, employeeID)
			if err != nil {
				jsonError(w, statusFor(err), err)
				return
			}
			jsonResponse(w, http.StatusOK, dto.ToOrderResponses(orders))
			return
		}

		if v := r.URL.Query().Get("date"); v != "" {
			date, err := time.Parse("2006-01-02", v)
			if err != nil {
				jsonError(w, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
				return
			}
			orders, err := oh.orderService.ListByDate(ctx, date)
			if err != nil {
				jsonError(w, statusFor(err), err)
				return
			}
			jsonResponse(w, http.StatusOK, dto.ToOrderResponses(orders))
			return
		}

		jsonError(w, http.StatusBadRequest, errors.New("employee_id or date query parameter is required"))
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), core.WaitTime*time.Second)
}
