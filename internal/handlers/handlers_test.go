package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/handlers"
	"github.com/SscSPs/dual_ledger/internal/middleware"
)

const testIssuer = "ledger-test"

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
	userID    string
	mapping   domain.AccountMapping

	mockAccountService     *MockAccountService
	mockBalanceService     *MockBalanceService
	mockTransactionService *MockTransactionService
	mockJournalService     *MockJournalService
	mockPeriodService      *MockPeriodService
	mockCategoryService    *MockCategoryService
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	v, ok := binding.Validator.Engine().(*validator.Validate)
	suite.Require().True(ok)
	suite.Require().NoError(dto.RegisterValidations(v))
}

// generateTestToken creates a signed JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.mapping = domain.AccountMapping{
		OperationalAccounts: map[string]string{"op-a": "acc-a"},
		IncomeAccountID:     "acc-rev",
	}

	suite.mockAccountService = new(MockAccountService)
	suite.mockBalanceService = new(MockBalanceService)
	suite.mockTransactionService = new(MockTransactionService)
	suite.mockJournalService = new(MockJournalService)
	suite.mockPeriodService = new(MockPeriodService)
	suite.mockCategoryService = new(MockCategoryService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, testIssuer))
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService, suite.mockBalanceService, suite.mockTransactionService)
	handlers.RegisterTransactionRoutes(v1, suite.mockTransactionService, suite.mapping)
	handlers.RegisterJournalRoutes(v1, suite.mockJournalService, suite.mockPeriodService)
	handlers.RegisterCategoryRoutes(v1, suite.mockCategoryService)
}

func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/abc", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "GetTransaction", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestWrongIssuerRejected() {
	claims := jwt.RegisteredClaims{Issuer: "someone-else", Subject: suite.userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestRecordTransaction_Success() {
	source, target := "op-a", "op-b"
	body := map[string]any{
		"type":            "TRANSFER",
		"sourceAccountID": source,
		"targetAccountID": target,
		"amount":          "200.00",
		"currencyCode":    "USD",
		"transactionDate": "2024-03-15T00:00:00Z",
	}
	expected := &domain.OperationalTransaction{
		TransactionID:     uuid.NewString(),
		TransactionNumber: "TRN-20240315-0001",
		Type:              domain.Transfer,
		Status:            domain.Posted,
		SourceAccountID:   &source,
		TargetAccountID:   &target,
		Amount:            decimal.RequireFromString("200"),
		CurrencyCode:      "USD",
	}
	suite.mockTransactionService.On("RecordTransaction", mock.Anything,
		mock.MatchedBy(func(req dto.RecordTransactionRequest) bool {
			return req.Type == domain.Transfer && req.Amount.Equal(decimal.NewFromInt(200)) &&
				*req.SourceAccountID == source && *req.TargetAccountID == target
		}),
		suite.mapping, suite.userID).Return(expected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", body)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp domain.OperationalTransaction
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionNumber, resp.TransactionNumber)
	suite.Equal(domain.Posted, resp.Status)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRecordTransaction_NonPositiveAmount() {
	body := map[string]any{
		"type":            "INCOME",
		"targetAccountID": "op-a",
		"amount":          "0",
		"currencyCode":    "USD",
		"transactionDate": "2024-03-15T00:00:00Z",
	}
	w := suite.do(http.MethodPost, "/api/v1/transactions", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "RecordTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRecordTransaction_ErrorStatuses() {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: period P1 is closed", apperrors.ErrPeriodClosed), http.StatusLocked},
		{fmt.Errorf("%w: currency mismatch", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: account op-a", apperrors.ErrInactiveAccount), http.StatusUnprocessableEntity},
		{apperrors.NewNotFoundError("account op-a"), http.StatusNotFound},
		{apperrors.NewAppError(500, "boom", fmt.Errorf("driver")), http.StatusInternalServerError},
	}
	body := map[string]any{
		"type":            "INCOME",
		"targetAccountID": "op-a",
		"amount":          10,
		"currencyCode":    "USD",
		"transactionDate": "2024-03-15T00:00:00Z",
	}
	for _, tc := range cases {
		suite.Run(tc.err.Error(), func() {
			suite.mockTransactionService.On("RecordTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tc.err).Once()
			w := suite.do(http.MethodPost, "/api/v1/transactions", body)
			suite.Equal(tc.status, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestVoidTransaction_Contention() {
	suite.mockTransactionService.On("VoidTransaction", mock.Anything, "txn-1", suite.userID).
		Return(nil, fmt.Errorf("%w: account acc-a", apperrors.ErrContention)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/txn-1/void", nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("1", w.Header().Get("Retry-After"))
}

func (suite *HandlerTestSuite) TestVoidTransaction_AlreadyVoided() {
	suite.mockTransactionService.On("VoidTransaction", mock.Anything, "txn-1", suite.userID).
		Return(nil, fmt.Errorf("%w: transaction txn-1 is already voided", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/txn-1/void", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "already voided")
}

func (suite *HandlerTestSuite) TestGetBalance_AsOf() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.mockBalanceService.On("BalanceOf", mock.Anything, "op-a",
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Equal(asOf) })).
		Return(&domain.Balance{AccountID: "op-a", Kind: domain.KindOperational, Amount: decimal.NewFromInt(800)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/op-a/balance?asOf=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp domain.Balance
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Amount.Equal(decimal.NewFromInt(800)))
	suite.mockBalanceService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetBalance_Current() {
	suite.mockBalanceService.On("BalanceOf", mock.Anything, "op-a", (*time.Time)(nil)).
		Return(&domain.Balance{AccountID: "op-a", Amount: decimal.NewFromInt(5)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/op-a/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockBalanceService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListTransactionsByAccount() {
	next := "token-2"
	expected := &dto.ListTransactionsResponse{
		Transactions: []domain.OperationalTransaction{{TransactionID: "t2"}, {TransactionID: "t1"}},
		NextToken:    &next,
	}
	suite.mockTransactionService.On("ListTransactionsByAccount", mock.Anything, "op-a",
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool { return p.Limit == 2 })).
		Return(expected, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/op-a/transactions?limit=2", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 2)
	suite.Equal("t2", resp.Transactions[0].TransactionID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *HandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "op-a", suite.userID).Return(nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/accounts/op-a/deactivate", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "op-b", suite.userID).
		Return(fmt.Errorf("%w: account op-b has pending transactions", apperrors.ErrConflict)).Once()
	w = suite.do(http.MethodPost, "/api/v1/accounts/op-b/deactivate", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestActivateAccount() {
	suite.mockAccountService.On("ActivateAccount", mock.Anything, "op-a", suite.userID).Return(nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/accounts/op-a/activate", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	suite.mockAccountService.On("ActivateAccount", mock.Anything, "op-gone", suite.userID).
		Return(fmt.Errorf("%w: account op-gone is deleted and cannot be reactivated", apperrors.ErrValidation)).Once()
	w = suite.do(http.MethodPost, "/api/v1/accounts/op-gone/activate", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "deleted")

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpdateOperationalAccount() {
	name := "Main checking"
	suite.mockAccountService.On("UpdateOperationalAccount", mock.Anything, "op-a",
		mock.MatchedBy(func(req dto.UpdateOperationalAccountRequest) bool {
			return req.Name != nil && *req.Name == name && req.StartingBalance == nil
		}), suite.userID).
		Return(&domain.OperationalAccount{AccountID: "op-a", Name: name, AccountType: domain.Bank}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/operational-accounts/op-a", map[string]any{"name": name})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.OperationalAccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(name, resp.Name)

	suite.mockAccountService.On("UpdateOperationalAccount", mock.Anything, "op-a", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: starting balance is fixed", apperrors.ErrConflict)).Once()
	w = suite.do(http.MethodPatch, "/api/v1/operational-accounts/op-a", map[string]any{"startingBalance": "50"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateAccountingAccount_RequiresName() {
	w := suite.do(http.MethodPatch, "/api/v1/accounting-accounts/acc-a", map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "UpdateAccountingAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	suite.mockAccountService.On("UpdateAccountingAccount", mock.Anything, "acc-a",
		dto.UpdateAccountingAccountRequest{Name: "Petty cash"}, suite.userID).
		Return(&domain.AccountingAccount{AccountID: "acc-a", Code: "1000", Name: "Petty cash", AccountType: domain.Asset}, nil).Once()
	w = suite.do(http.MethodPatch, "/api/v1/accounting-accounts/acc-a", map[string]any{"name": "Petty cash"})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"normalSide":"DEBIT"`)
}

func (suite *HandlerTestSuite) TestCategoryTreeAndPath() {
	food := domain.Category{CategoryID: uuid.NewString(), Name: "Food", Kind: domain.CategoryExpense, IsActive: true}
	groceries := domain.Category{CategoryID: uuid.NewString(), ParentID: &food.CategoryID, Name: "Groceries", Kind: domain.CategoryExpense, IsActive: true}
	kind := domain.CategoryExpense

	suite.mockCategoryService.On("GetCategoryTree", mock.Anything, &kind).
		Return(domain.BuildCategoryTree([]domain.Category{food, groceries}), nil).Once()
	w := suite.do(http.MethodGet, "/api/v1/categories/tree?kind=EXPENSE", nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var tree struct {
		Categories []domain.CategoryNode `json:"categories"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tree))
	suite.Require().Len(tree.Categories, 1)
	suite.Require().Len(tree.Categories[0].Children, 1)
	suite.Equal("Groceries", tree.Categories[0].Children[0].Name)

	suite.mockCategoryService.On("GetCategoryPath", mock.Anything, groceries.CategoryID).
		Return([]domain.Category{food, groceries}, nil).Once()
	w = suite.do(http.MethodGet, "/api/v1/categories/"+groceries.CategoryID+"/path", nil)
	suite.Equal(http.StatusOK, w.Code)
	var path struct {
		Path []domain.Category `json:"path"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &path))
	suite.Require().Len(path.Path, 2)
	suite.Equal("Food", path.Path[0].Name)
}

func (suite *HandlerTestSuite) TestMoveCategory() {
	id := uuid.NewString()
	suite.mockCategoryService.On("MoveCategory", mock.Anything, id, (*string)(nil), suite.userID).
		Return(&domain.Category{CategoryID: id, Name: "Food", Kind: domain.CategoryExpense}, nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/categories/"+id+"/move", map[string]any{"parentID": nil})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/categories/"+id+"/move", map[string]any{"parentID": "not-a-uuid"})
	suite.Equal(http.StatusBadRequest, w.Code)

	parent := uuid.NewString()
	suite.mockCategoryService.On("MoveCategory", mock.Anything, id,
		mock.MatchedBy(func(p *string) bool { return p != nil && *p == parent }), suite.userID).
		Return(nil, fmt.Errorf("%w: would create a cycle", apperrors.ErrValidation)).Once()
	w = suite.do(http.MethodPost, "/api/v1/categories/"+id+"/move", map[string]any{"parentID": parent})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCategoryService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeleteCategory() {
	suite.mockCategoryService.On("DeleteCategory", mock.Anything, "cat-1", suite.userID).Return(nil).Once()
	w := suite.do(http.MethodDelete, "/api/v1/categories/cat-1", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	suite.mockCategoryService.On("DeleteCategory", mock.Anything, "cat-2", suite.userID).
		Return(fmt.Errorf("%w: category cat-2 is used by 3 transactions", apperrors.ErrConflict)).Once()
	w = suite.do(http.MethodDelete, "/api/v1/categories/cat-2", nil)
	suite.Equal(http.StatusConflict, w.Code)

	suite.mockCategoryService.On("UpdateCategory", mock.Anything, "cat-3", dto.UpdateCategoryRequest{Name: "Travel"}, suite.userID).
		Return(nil, fmt.Errorf("%w: system category cat-3 cannot be changed", apperrors.ErrValidation)).Once()
	w = suite.do(http.MethodPatch, "/api/v1/categories/cat-3", map[string]any{"name": "Travel"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestPostEntry_Unbalanced() {
	body := map[string]any{
		"periodID":  "p1",
		"entryDate": "2024-03-15T00:00:00Z",
		"postings": []map[string]any{
			{"accountID": "cash", "side": "DEBIT", "amount": "100"},
			{"accountID": "rev", "side": "CREDIT", "amount": "90"},
		},
	}
	suite.mockJournalService.On("PostEntry", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: debits 100 credits 90", apperrors.ErrUnbalancedEntry)).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries", body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestPostEntry_SingleLineRejected() {
	body := map[string]any{
		"periodID":  "p1",
		"entryDate": "2024-03-15T00:00:00Z",
		"postings":  []map[string]any{{"accountID": "cash", "side": "DEBIT", "amount": "100"}},
	}
	w := suite.do(http.MethodPost, "/api/v1/entries", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestOpenPeriod_Overlap() {
	suite.mockPeriodService.On("OpenPeriod", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: intersects period p1", apperrors.ErrOverlap)).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods", map[string]any{
		"startDate": "2024-01-15T00:00:00Z",
		"endDate":   "2024-02-15T00:00:00Z",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestClosePeriod() {
	now := time.Now().UTC()
	suite.mockPeriodService.On("ClosePeriod", mock.Anything, "p1", suite.userID).
		Return(&domain.AccountingPeriod{PeriodID: "p1", Status: domain.PeriodClosed, ClosedAt: &now}, nil).Once()
	suite.mockPeriodService.On("ClosePeriod", mock.Anything, "p1", suite.userID).
		Return(nil, fmt.Errorf("%w: period p1", apperrors.ErrPeriodClosed)).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/p1/close", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/periods/p1/close", nil)
	suite.Equal(http.StatusLocked, w.Code)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
