package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/internal/adapter/report"
	"github.com/hugohenrick/gestao-obras/internal/domain/purchase"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/identity"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService devolve os valores configurados e guarda o último input recebido
type fakeService struct {
	result  *purchase.Purchase
	err     error
	removed int64

	created   purchase.CreateInput
	updated   purchase.UpdateInput
	converted purchase.Type
	paidSeq   int
	paidAt    time.Time
	filter    purchase.ListFilter
}

func (f *fakeService) Create(_ context.Context, _ identity.Actor, in purchase.CreateInput) (*purchase.Purchase, error) {
	f.created = in
	return f.result, f.err
}

func (f *fakeService) Update(_ context.Context, _ identity.Actor, _ string, in purchase.UpdateInput) (*purchase.Purchase, error) {
	f.updated = in
	return f.result, f.err
}

func (f *fakeService) ConvertType(_ context.Context, _ identity.Actor, _ string, target purchase.Type) (*purchase.Purchase, error) {
	f.converted = target
	return f.result, f.err
}

func (f *fakeService) ApproveBudget(context.Context, identity.Actor, string) (*purchase.Purchase, error) {
	return f.result, f.err
}

func (f *fakeService) PayInstallment(_ context.Context, _ identity.Actor, _ string, seq int, paidAt time.Time) (*purchase.Purchase, error) {
	f.paidSeq = seq
	f.paidAt = paidAt
	return f.result, f.err
}

func (f *fakeService) Delete(context.Context, identity.Actor, string) error {
	return f.err
}

func (f *fakeService) Get(context.Context, string) (*purchase.Purchase, error) {
	return f.result, f.err
}

func (f *fakeService) List(_ context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, int, error) {
	f.filter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return []*purchase.Purchase{f.result}, 21, nil
}

func (f *fakeService) ListWithoutItems(context.Context) ([]*purchase.Purchase, error) {
	return []*purchase.Purchase{f.result}, f.err
}

func (f *fakeService) DeleteWithoutItems(context.Context, identity.Actor) (int64, error) {
	return f.removed, f.err
}

func samplePurchase() *purchase.Purchase {
	return &purchase.Purchase{
		ID:               "compra-1",
		SupplierName:     "Depósito Central",
		PurchaseDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Type:             purchase.TypePurchase,
		GrossTotal:       decimal.RequireFromString("1099.99"),
		Discount:         decimal.RequireFromString("100"),
		NetTotal:         decimal.RequireFromString("999.99"),
		DownPayment:      decimal.Zero,
		PaymentMode:      purchase.PaymentInstallment,
		InstallmentCount: 3,
		Version:          1,
		Installments: []purchase.Installment{
			{ID: "p1", Sequence: 1, Amount: decimal.RequireFromString("333.33"), DueDate: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), Status: purchase.InstallmentPending},
		},
	}
}

func withActor(actor *identity.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Request = c.Request.WithContext(identity.WithActor(c.Request.Context(), *actor))
		}
		c.Next()
	}
}

func setupPurchaseRouter(svc PurchaseService, actor *identity.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewPurchaseController(svc, report.NewScheduleExporter(), logger.NewNop())

	r := gin.New()
	g := r.Group("/purchases", withActor(actor))
	g.POST("", ctrl.Create)
	g.GET("", ctrl.List)
	g.GET("/maintenance/without-items", ctrl.ListWithoutItems)
	g.DELETE("/maintenance/without-items", ctrl.DeleteWithoutItems)
	g.GET("/:id", ctrl.GetByID)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
	g.PATCH("/:id/type", ctrl.ConvertType)
	g.PATCH("/:id/approve", ctrl.Approve)
	g.PATCH("/:id/installments/:sequence/pay", ctrl.PayInstallment)
	g.GET("/:id/installments/export", ctrl.ExportInstallments)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var buyer = &identity.Actor{UserID: "u-1", Role: identity.RoleCompras}

func TestPurchaseController_Create(t *testing.T) {
	svc := &fakeService{result: samplePurchase()}
	r := setupPurchaseRouter(svc, buyer)

	body := `{
		"supplier_name": "Depósito Central",
		"purchase_date": "2024-01-10",
		"payment_mode": "installment",
		"installment_count": 3,
		"discount": "100",
		"items": [
			{"material_id": "m-1", "quantity": 20, "unit_price": "35.00"},
			{"material_id": "m-2", "quantity": "3", "unit_price": 133.33}
		]
	}`
	w := doJSON(r, http.MethodPost, "/purchases", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "999.99", resp.NetTotal)
	assert.Equal(t, "100.00", resp.Discount)
	assert.Equal(t, "2024-01-10", resp.PurchaseDate)
	require.Len(t, resp.Installments, 1)
	assert.Equal(t, "333.33", resp.Installments[0].Amount)
	assert.Equal(t, "2024-02-10", resp.Installments[0].DueDate)

	assert.Equal(t, purchase.PaymentInstallment, svc.created.PaymentMode)
	require.Len(t, svc.created.Items, 2)
	assert.True(t, svc.created.Items[1].UnitPrice.Equal(decimal.RequireFromString("133.33")))
	assert.True(t, svc.created.Discount.Equal(decimal.NewFromInt(100)))
}

func TestPurchaseController_CreateRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		field string
	}{
		{"quantidade ausente", `{"material_id": "m-1", "unit_price": "1"}`, "items[0].quantity"},
		{"preço não finito", `{"material_id": "m-1", "quantity": 1, "unit_price": "Infinity"}`, "items[0].unit_price"},
		{"preço com três casas", `{"material_id": "m-1", "quantity": 1, "unit_price": "1.005"}`, "items[0].unit_price"},
		{"quantidade não numérica", `{"material_id": "m-1", "quantity": "abc", "unit_price": "1"}`, "items[0].quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{result: samplePurchase()}
			r := setupPurchaseRouter(svc, buyer)

			body := `{"supplier_name": "X", "purchase_date": "2024-01-10", "items": [` + tt.item + `]}`
			w := doJSON(r, http.MethodPost, "/purchases", body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestPurchaseController_CreateInvalidDate(t *testing.T) {
	r := setupPurchaseRouter(&fakeService{}, buyer)

	w := doJSON(r, http.MethodPost, "/purchases", `{"supplier_name": "X", "purchase_date": "10/01/2024"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "purchase_date", resp.Field)
}

func TestPurchaseController_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validação", domain.NewValidationError("installment_count", "deve ser >= 1"), http.StatusUnprocessableEntity},
		{"não encontrado", domain.NewNotFoundError("compra", "x"), http.StatusNotFound},
		{"conflito", domain.NewConflictError("x", "versão desatualizada"), http.StatusConflict},
		{"sem permissão", domain.ErrForbidden, http.StatusForbidden},
		{"erro interno", errors.New("conexão perdida"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupPurchaseRouter(&fakeService{err: tt.err}, buyer)

			w := doJSON(r, http.MethodPut, "/purchases/x", `{"installment_count": 5}`)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "conexão perdida")
			}
		})
	}
}

func TestPurchaseController_RequiresActor(t *testing.T) {
	r := setupPurchaseRouter(&fakeService{result: samplePurchase()}, nil)

	w := doJSON(r, http.MethodDelete, "/purchases/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchaseController_Update(t *testing.T) {
	svc := &fakeService{result: samplePurchase()}
	r := setupPurchaseRouter(svc, buyer)

	w := doJSON(r, http.MethodPut, "/purchases/compra-1", `{"expected_version": 1, "down_payment": "199.99", "payment_mode": "INSTALLMENT"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NotNil(t, svc.updated.ExpectedVersion)
	assert.Equal(t, 1, *svc.updated.ExpectedVersion)
	require.NotNil(t, svc.updated.DownPayment)
	assert.True(t, svc.updated.DownPayment.Equal(decimal.RequireFromString("199.99")))
	assert.Nil(t, svc.updated.Items)
	assert.Nil(t, svc.updated.Discount)
}

func TestPurchaseController_ConvertAndApprove(t *testing.T) {
	svc := &fakeService{result: samplePurchase()}
	r := setupPurchaseRouter(svc, buyer)

	w := doJSON(r, http.MethodPatch, "/purchases/compra-1/type", `{"type": "budget"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, purchase.TypeBudget, svc.converted)

	w = doJSON(r, http.MethodPatch, "/purchases/compra-1/approve", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurchaseController_PayInstallment(t *testing.T) {
	svc := &fakeService{result: samplePurchase()}
	r := setupPurchaseRouter(svc, buyer)

	w := doJSON(r, http.MethodPatch, "/purchases/compra-1/installments/2/pay", `{"paid_at": "2024-03-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, svc.paidSeq)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), svc.paidAt)

	w = doJSON(r, http.MethodPatch, "/purchases/compra-1/installments/1/pay", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.paidAt.IsZero())

	w = doJSON(r, http.MethodPatch, "/purchases/compra-1/installments/zero/pay", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPurchaseController_List(t *testing.T) {
	svc := &fakeService{result: samplePurchase()}
	r := setupPurchaseRouter(svc, buyer)

	w := doJSON(r, http.MethodGet, "/purchases?type=budget&obra_id=obra-1&page=2&page_size=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PurchaseListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 21, resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, purchase.TypeBudget, svc.filter.Type)
	assert.Equal(t, "obra-1", svc.filter.ObraID)
	assert.Equal(t, 10, svc.filter.Offset)

	w = doJSON(r, http.MethodGet, "/purchases?type=pedido", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPurchaseController_Export(t *testing.T) {
	r := setupPurchaseRouter(&fakeService{result: samplePurchase()}, buyer)

	w := doJSON(r, http.MethodGet, "/purchases/compra-1/installments/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="parcelas_compra-1.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotZero(t, w.Body.Len())
}

func TestPurchaseController_Maintenance(t *testing.T) {
	svc := &fakeService{result: samplePurchase(), removed: 4}
	r := setupPurchaseRouter(svc, buyer)

	w := doJSON(r, http.MethodGet, "/purchases/maintenance/without-items", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/purchases/maintenance/without-items", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.MaintenanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.Removed)
}
