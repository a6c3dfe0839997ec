package yclients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ListStaff сотрудники филиала, опционально только оказывающие serviceID.
// Ответ кэшируется на DirectoryTTL.
func (c *Client) ListStaff(ctx context.Context, serviceID string) ([]Staff, error) {
	query := url.Values{}
	if serviceID != "" {
		query.Set("service_id", serviceID)
	}

	env, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/company/%d/staff", c.companyID), query, nil, c.directoryCache()...)
	if err != nil {
		return nil, err
	}
	if !env.Success() {
		return nil, &FailureError{Message: env.Message()}
	}
	return DecodeStaff(env.Data())
}

// ListBookableStaff сотрудники, доступные для онлайн-записи
func (c *Client) ListBookableStaff(ctx context.Context) ([]Staff, error) {
	env, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/book_staff/%d", c.companyID), nil, nil, c.directoryCache()...)
	if err != nil {
		return nil, err
	}
	if !env.Success() {
		return nil, &FailureError{Message: env.Message()}
	}
	return DecodeStaff(env.Data())
}

// ListServices справочник услуг филиала
func (c *Client) ListServices(ctx context.Context, categoryID *int64) ([]Service, error) {
	query := url.Values{}
	if categoryID != nil {
		query.Set("category_id", strconv.FormatInt(*categoryID, 10))
	}
	return c.services(ctx, query)
}

// ListStaffServices услуги, которые оказывает сотрудник
func (c *Client) ListStaffServices(ctx context.Context, staffID int64) ([]Service, error) {
	query := url.Values{}
	query.Set("staff_id", strconv.FormatInt(staffID, 10))
	return c.services(ctx, query)
}

func (c *Client) services(ctx context.Context, query url.Values) ([]Service, error) {
	env, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/company/%d/services", c.companyID), query, nil, c.directoryCache()...)
	if err != nil {
		return nil, err
	}
	if !env.Success() {
		return nil, &FailureError{Message: env.Message()}
	}
	return DecodeServices(env.Data())
}

// BookDates даты, доступные для записи к сотруднику. Не кэшируется
func (c *Client) BookDates(ctx context.Context, staffID int64) (*BookDates, error) {
	query := url.Values{}
	query.Set("staff_id", strconv.FormatInt(staffID, 10))

	env, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/book_dates/%d", c.companyID), query, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success() {
		return nil, &FailureError{Message: env.Message()}
	}
	return DecodeBookDates(env.Data())
}

// BookTimes свободное время сотрудника на дату. Не кэшируется
func (c *Client) BookTimes(ctx context.Context, staffID int64, date string, serviceIDs []string) ([]domain.TimeSlot, error) {
	query := url.Values{}
	for _, id := range serviceIDs {
		query.Add("service_ids", id)
	}

	path := fmt.Sprintf("/book_times/%d/%d/%s", c.companyID, staffID, url.PathEscape(date))
	env, err := c.Request(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success() {
		return nil, &FailureError{Message: env.Message()}
	}
	return DecodeTimeSlots(env.Data(), date)
}

// CreateRecord создает запись. Запрос выполняется ровно один раз, без повторов
func (c *Client) CreateRecord(ctx context.Context, record *RecordRequest) (*domain.BookingResult, error) {
	env, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/book_record/%d", c.companyID), nil, record)
	if err != nil {
		return nil, err
	}
	if !env.Success() {
		return nil, &FailureError{Message: env.Message()}
	}
	return DecodeRecord(env.Data())
}

func (c *Client) directoryCache() []RequestOption {
	if c.directoryTTL <= 0 {
		return nil
	}
	return []RequestOption{Cached(c.directoryTTL)}
}
