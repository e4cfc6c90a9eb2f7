package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"custcrm/internal/auth"
	apperrors "custcrm/internal/errors"
	"custcrm/internal/model"
	"custcrm/internal/service"
)

const (
	customerListPath = "/"
	importFileField  = "excel_file"
	imageField       = "image"
	importSucceeded  = "Customers imported successfully."
)

// CustomerHandler handles customer pages, bulk import and PDF downloads.
type CustomerHandler struct {
	customers      service.CustomerService
	importer       service.ImportService
	reports        service.ReportService
	maxUploadBytes int64
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(customers service.CustomerService, importer service.ImportService, reports service.ReportService, maxUploadBytes int64) *CustomerHandler {
	return &CustomerHandler{
		customers:      customers,
		importer:       importer,
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
	}
}

// CustomerForm is a customer create/edit submission.
type CustomerForm struct {
	FirstName  string `form:"first_name" json:"first_name" validate:"required,max=100"`
	LastName   string `form:"last_name" json:"last_name" validate:"max=100"`
	Email      string `form:"email" json:"email" validate:"omitempty,email,max=254"`
	Phone      string `form:"phone" json:"phone" validate:"max=30"`
	City       string `form:"city" json:"city" validate:"max=100"`
	State      string `form:"state" json:"state" validate:"max=100"`
	Country    string `form:"country" json:"country" validate:"max=100"`
	ImageClear string `form:"image-clear" json:"-"`
}

func (f CustomerForm) input(image []byte) service.CustomerInput {
	return service.CustomerInput{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Phone:      f.Phone,
		City:       f.City,
		State:      f.State,
		Country:    f.Country,
		Image:      image,
		ClearImage: f.ImageClear == "on",
	}
}

func customerForm(c *model.Customer) CustomerForm {
	return CustomerForm{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		City:      c.City,
		State:     c.State,
		Country:   c.Country,
	}
}

// CustomerListResponse is the customer list page.
type CustomerListResponse struct {
	Customers []model.Customer `json:"customers"`
	Message   string           `json:"message"`
	Imported  *int             `json:"imported,omitempty"`
}

// CustomerFormResponse is the state of an add/edit form.
type CustomerFormResponse struct {
	Action   string          `json:"action"`
	Form     CustomerForm    `json:"form"`
	Customer *model.Customer `json:"customer,omitempty"`
}

// CustomerDetailResponse is a single customer page.
type CustomerDetailResponse struct {
	Customer      *model.Customer `json:"customer"`
	ConfirmDelete bool            `json:"confirm_delete,omitempty"`
}

// List godoc
// @Summary List customers, newest first
// @Tags customers
// @Produce json
// @Success 200 {object} CustomerListResponse
// @Failure 302 "Redirect to login"
// @Failure 500 {object} errors.ErrorResponse
// @Router / [get]
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.customers.ListCustomers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CustomerListResponse{Customers: customers})
}

// AddForm godoc
// @Summary Empty customer form
// @Tags customers
// @Produce json
// @Success 200 {object} CustomerFormResponse
// @Router /customers/add/ [get]
func (h *CustomerHandler) AddForm(c echo.Context) error {
	return c.JSON(http.StatusOK, CustomerFormResponse{Action: "Add"})
}

// Create godoc
// @Summary Create a customer
// @Tags customers
// @Accept multipart/form-data
// @Param first_name formData string true "First name"
// @Param last_name formData string false "Last name"
// @Param email formData string false "Email"
// @Param phone formData string false "Phone"
// @Param city formData string false "City"
// @Param state formData string false "State"
// @Param country formData string false "Country"
// @Param image formData file false "Photo (JPEG, PNG or GIF)"
// @Success 302 "Redirect to the customer list"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customers/add/ [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var form CustomerForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	image, _, err := readUpload(c, imageField, h.maxUploadBytes)
	if err != nil {
		return err
	}

	if _, err := h.customers.CreateCustomer(c.Request().Context(), form.input(image)); err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, customerListPath)
}

// Detail godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} CustomerDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /customers/{id}/ [get]
func (h *CustomerHandler) Detail(c echo.Context) error {
	return h.detail(c, false)
}

// DeleteConfirm godoc
// @Summary Confirm customer deletion
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} CustomerDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /customers/{id}/delete/ [get]
func (h *CustomerHandler) DeleteConfirm(c echo.Context) error {
	return h.detail(c, true)
}

func (h *CustomerHandler) detail(c echo.Context, confirmDelete bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	customer, err := h.customers.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CustomerDetailResponse{Customer: customer, ConfirmDelete: confirmDelete})
}

// EditForm godoc
// @Summary Current values of a customer form
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} CustomerFormResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /customers/{id}/edit/ [get]
func (h *CustomerHandler) EditForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	customer, err := h.customers.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CustomerFormResponse{Action: "Edit", Form: customerForm(customer), Customer: customer})
}

// Update godoc
// @Summary Update a customer
// @Tags customers
// @Accept multipart/form-data
// @Param id path int true "Customer ID"
// @Param first_name formData string true "First name"
// @Param image formData file false "New photo"
// @Param image-clear formData string false "Set to 'on' to remove the photo"
// @Success 302 "Redirect to the customer list"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /customers/{id}/edit/ [post]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var form CustomerForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	image, _, err := readUpload(c, imageField, h.maxUploadBytes)
	if err != nil {
		return err
	}

	if _, err := h.customers.UpdateCustomer(c.Request().Context(), id, form.input(image)); err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, customerListPath)
}

// Delete godoc
// @Summary Delete a customer
// @Tags customers
// @Param id path int true "Customer ID"
// @Success 302 "Redirect to the customer list"
// @Failure 404 {object} errors.ErrorResponse
// @Router /customers/{id}/delete/ [post]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.customers.DeleteCustomer(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, customerListPath)
}

// BulkUploadForm godoc
// @Summary Customer list with an empty import message
// @Tags customers
// @Produce json
// @Success 200 {object} CustomerListResponse
// @Router /customers/bulk-upload/ [get]
func (h *CustomerHandler) BulkUploadForm(c echo.Context) error {
	return h.List(c)
}

// BulkUpload godoc
// @Summary Import customers from a spreadsheet
// @Description Creates one customer per data row. The import stops at the first failing row; rows created before it are kept.
// @Tags customers
// @Accept multipart/form-data
// @Produce json
// @Param excel_file formData file true "Spreadsheet (.xlsx or .csv) with a header row"
// @Success 200 {object} CustomerListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /customers/bulk-upload/ [post]
func (h *CustomerHandler) BulkUpload(c echo.Context) error {
	data, filename, err := readUpload(c, importFileField, h.maxUploadBytes)
	if err != nil {
		return err
	}
	if data == nil {
		return respondError(apperrors.NewValidationError(importFileField, "this field is required"))
	}

	upload := service.Upload{Filename: filename, Data: data}
	if id, ok := auth.IdentityFromContext(c.Request().Context()); ok {
		upload.UserID = id.UserID
	}

	res, err := h.importer.Import(c.Request().Context(), upload)
	if err != nil {
		return respondError(err)
	}

	customers, err := h.customers.ListCustomers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CustomerListResponse{
		Customers: customers,
		Message:   importSucceeded,
		Imported:  &res.Imported,
	})
}

// DownloadAll godoc
// @Summary PDF report of every customer
// @Tags reports
// @Produce application/pdf
// @Success 200 {file} binary
// @Failure 500 {object} errors.ErrorResponse
// @Router /customers/download/pdf/ [get]
func (h *CustomerHandler) DownloadAll(c echo.Context) error {
	file, err := h.reports.RenderAll(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return attachment(c, file)
}

// DownloadOne godoc
// @Summary PDF profile of one customer
// @Tags reports
// @Produce application/pdf
// @Param id path int true "Customer ID"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customers/{id}/download/ [get]
func (h *CustomerHandler) DownloadOne(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	file, err := h.reports.RenderOne(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return attachment(c, file)
}

func attachment(c echo.Context, file *service.File) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}
