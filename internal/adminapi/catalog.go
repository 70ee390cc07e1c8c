package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/catalog"
)

type stockPayload struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

func registerCatalogRoutes(s routeRegistrar) {
	s.ApiGET("/catalog/products", listProducts)
	s.ApiGET("/catalog/products/:id", getProduct)
	s.ApiPOST("/catalog/products", createProduct)
	s.ApiPUT("/catalog/products/:id/stock", updateProductStock)

	s.ApiGET("/catalog/customers", listCustomers)
	s.ApiGET("/catalog/customers/:id", getCustomer)
	s.ApiPOST("/catalog/customers", createCustomer)

	s.ApiGET("/catalog/suppliers", listSuppliers)
	s.ApiPOST("/catalog/suppliers", createSupplier)
}

func parseIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func listProducts(c echo.Context) error {
	products := GetAppContext(c).Products()
	ctx := c.Request().Context()

	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		rows, err := products.ListByCategory(ctx, category)
		if err != nil {
			return failFromError(c, err, "Failed to query products")
		}
		return ok(c, rows)
	}

	rows, err := products.List(ctx)
	if err != nil {
		return failFromError(c, err, "Failed to query products")
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, valid := parseIDParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetAppContext(c).Products().GetByID(c.Request().Context(), id)
	if err != nil {
		return failFromError(c, err, "Product not available")
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := c.Validate(&in); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetAppContext(c).Products().Create(c.Request().Context(), in)
	if err != nil {
		return failFromError(c, err, "Failed to create product")
	}
	return created(c, p)
}

func updateProductStock(c echo.Context) error {
	id, valid := parseIDParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	ctx := c.Request().Context()
	products := GetAppContext(c).Products()
	if err := products.UpdateStock(ctx, id, *payload.Stock); err != nil {
		return failFromError(c, err, "Failed to update stock")
	}
	p, err := products.GetByID(ctx, id)
	if err != nil {
		return failFromError(c, err, "Product not available")
	}
	return ok(c, p)
}

func listCustomers(c echo.Context) error {
	rows, err := GetAppContext(c).Customers().List(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "Failed to query customers")
	}
	return ok(c, rows)
}

func getCustomer(c echo.Context) error {
	id, valid := parseIDParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	cust, err := GetAppContext(c).Customers().GetByID(c.Request().Context(), id)
	if err != nil {
		return failFromError(c, err, "Customer not available")
	}
	return ok(c, cust)
}

func createCustomer(c echo.Context) error {
	var in catalog.CustomerInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := c.Validate(&in); err != nil {
		return handleValidationError(c, err)
	}

	cust, err := GetAppContext(c).Customers().Create(c.Request().Context(), in)
	if err != nil {
		return failFromError(c, err, "Failed to create customer")
	}
	return created(c, cust)
}

func listSuppliers(c echo.Context) error {
	rows, err := GetAppContext(c).Suppliers().List(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "Failed to query suppliers")
	}
	return ok(c, rows)
}

func createSupplier(c echo.Context) error {
	var in catalog.SupplierInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := c.Validate(&in); err != nil {
		return handleValidationError(c, err)
	}

	s, err := GetAppContext(c).Suppliers().Create(c.Request().Context(), in)
	if err != nil {
		return failFromError(c, err, "Failed to create supplier")
	}
	return created(c, s)
}
