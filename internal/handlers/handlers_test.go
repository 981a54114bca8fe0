package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/adapters/xrpl"
	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/handlers"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
	"github.com/SscSPs/ledger_bridge/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	operatorID = "operator"
	sender     = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	receiver   = "rU6K7V3Po4snVhBBaU29sesqs2qTQJWDw1"
)

type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	payments     *MockPaymentService
	ledger       *MockLedgerService
	tokens       *MockTokenService
	currencies   *MockCurrencyService
	rates        *MockExchangeRateService
	mappings     *MockAccountMappingService
	accessHeader string
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	v, ok := binding.Validator.Engine().(*validator.Validate)
	suite.Require().True(ok)
	suite.Require().NoError(xrpl.RegisterValidations(v))

	token, _, err := utils.GenerateJWT(operatorID, testSecret, time.Hour, "ledger-bridge-test")
	suite.Require().NoError(err)
	suite.accessHeader = "Bearer " + token
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.payments = new(MockPaymentService)
	suite.ledger = new(MockLedgerService)
	suite.tokens = new(MockTokenService)
	suite.currencies = new(MockCurrencyService)
	suite.rates = new(MockExchangeRateService)
	suite.mappings = new(MockAccountMappingService)

	cfg := &config.Config{IsProduction: true, JWTSecret: testSecret, LoginRateLimit: "5-M"}
	container := &portssvc.ServiceContainer{
		Payment:        suite.payments,
		Submission:     new(MockSubmissionService),
		Ledger:         suite.ledger,
		Currency:       suite.currencies,
		ExchangeRate:   suite.rates,
		AccountMapping: suite.mappings,
		TokenService:   suite.tokens,
	}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.payments.AssertExpectations(suite.T())
	suite.ledger.AssertExpectations(suite.T())
	suite.tokens.AssertExpectations(suite.T())
	suite.currencies.AssertExpectations(suite.T())
	suite.rates.AssertExpectations(suite.T())
	suite.mappings.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", suite.accessHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *HandlerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestAPIRequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestToken_Success() {
	expiresAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	suite.tokens.On("Login", mock.Anything, "operator", "secret").Return("signed.jwt", expiresAt, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/token", dto.LoginRequest{Username: "operator", Password: "secret"})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.LoginResponse
	suite.decode(w, &res)
	suite.Equal("signed.jwt", res.Token)
	suite.True(expiresAt.Equal(res.ExpiresAt))
}

func (suite *HandlerTestSuite) TestToken_InvalidCredentials() {
	suite.tokens.On("Login", mock.Anything, "operator", "wrong").
		Return("", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/token", dto.LoginRequest{Username: "operator", Password: "wrong"})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestToken_RateLimited() {
	suite.tokens.On("Login", mock.Anything, "operator", "wrong").
		Return("", time.Time{}, apperrors.ErrUnauthorized).Times(5)

	var last int
	for i := 0; i < 6; i++ {
		last = suite.do(http.MethodPost, "/api/v1/auth/token", dto.LoginRequest{Username: "operator", Password: "wrong"}).Code
	}

	suite.Equal(http.StatusTooManyRequests, last)
}

func paymentRequest(e2e string) dto.PaymentRequest {
	return dto.PaymentRequest{
		EndToEndID:      e2e,
		SenderAddress:   sender,
		SenderSecret:    "snoPBrXtMeMyMHUVTgbuqAfg1SUTb",
		ReceiverAddress: receiver,
		Amount:          dto.AmountDTO{Value: decimal.NewFromInt(10), Currency: "XRP"},
	}
}

func builtPayment(e2e string) *domain.Payment {
	tx := domain.NewTransaction(domain.XRPL)
	tx.Sender = domain.Wallet{Address: sender}
	tx.Receiver = domain.Wallet{Address: receiver}
	p, _ := domain.NewPayment(tx)
	p.EndToEndID = e2e
	return p
}

func byEndToEndID(id string) any {
	return mock.MatchedBy(func(r dto.PaymentRequest) bool { return r.EndToEndID == id })
}

func samePeriod(want domain.Period) any {
	return mock.MatchedBy(func(p domain.Period) bool { return p.From.Equal(want.From) && p.To.Equal(want.To) })
}

func (suite *HandlerTestSuite) TestSubmitPayments() {
	good, bad, rejected := paymentRequest("E2E-1"), paymentRequest("E2E-2"), paymentRequest("E2E-3")
	bad.Amount.Currency = "CHF"
	goodPayment, rejectedPayment := builtPayment("E2E-1"), builtPayment("E2E-3")

	suite.payments.On("BuildPayment", mock.Anything, byEndToEndID("E2E-1")).Return(goodPayment, nil).Once()
	suite.payments.On("BuildPayment", mock.Anything, byEndToEndID("E2E-2")).
		Return(nil, fmt.Errorf("%w: no exchange rate for CHF/XRP", apperrors.ErrValidation)).Once()
	suite.payments.On("BuildPayment", mock.Anything, byEndToEndID("E2E-3")).Return(rejectedPayment, nil).Once()

	rejection := &domain.LedgerRejectionError{Code: "tecUNFUNDED_PAYMENT", Message: "Insufficient XRP balance to send."}
	suite.payments.On("SubmitPayments", mock.Anything, []*domain.Payment{goodPayment, rejectedPayment}).
		Run(func(args mock.Arguments) {
			goodPayment.Transaction().MarkSuccess("HASH1", time.Now())
			rejectedPayment.Transaction().MarkError(rejection)
		}).
		Return([]domain.SubmitOutcome{
			{Transaction: goodPayment.Transaction(), Sender: sender, Sequence: 42, ValidityCeiling: 104},
			{Transaction: rejectedPayment.Transaction(), Sender: sender, Sequence: 43, SequenceOffset: 1, ValidityCeiling: 104, Err: rejection},
		}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments/submit", dto.SubmitPaymentsRequest{Payments: []dto.PaymentRequest{good, bad, rejected}})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.SubmitPaymentsResponse
	suite.decode(w, &res)
	suite.Require().Len(res.Results, 3)

	suite.Equal("E2E-1", res.Results[0].EndToEndID)
	suite.Equal("SUCCESS", res.Results[0].State)
	suite.Equal("HASH1", res.Results[0].TransactionID)
	suite.Equal(uint32(42), res.Results[0].Sequence)

	suite.Equal("ERROR", res.Results[1].State)
	suite.Contains(res.Results[1].Error, "no exchange rate")

	suite.Equal("ERROR", res.Results[2].State)
	suite.Equal("tecUNFUNDED_PAYMENT", res.Results[2].ErrorCode)
	suite.Equal(uint32(1), res.Results[2].SequenceOffset)
}

func (suite *HandlerTestSuite) TestSubmitPayments_LedgerUnavailable() {
	req := paymentRequest("E2E-1")
	p := builtPayment("E2E-1")
	suite.payments.On("BuildPayment", mock.Anything, byEndToEndID("E2E-1")).Return(p, nil).Once()
	suite.payments.On("SubmitPayments", mock.Anything, []*domain.Payment{p}).
		Return(nil, fmt.Errorf("%w: no validated ledger available", apperrors.ErrLedger)).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments/submit", dto.SubmitPaymentsRequest{Payments: []dto.PaymentRequest{req}})

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *HandlerTestSuite) TestSubmitPayments_InvalidBody() {
	bad := paymentRequest("E2E-1")
	bad.ReceiverAddress = "not-an-address"

	w := suite.do(http.MethodPost, "/api/v1/payments/submit", dto.SubmitPaymentsRequest{Payments: []dto.PaymentRequest{bad}})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/payments/submit", dto.SubmitPaymentsRequest{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestReceivedPayments_PagesWithToken() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	period := domain.Period{From: from, To: to}

	incoming := builtPayment("")
	incoming.Transaction().Amount = domain.NewMoney(decimal.NewFromInt(3), domain.XRPL.Native())
	incoming.Transaction().MarkSuccess("H1", from.Add(time.Hour))
	incoming.Origin = domain.OriginLedger

	suite.payments.On("ListPaymentsReceived", mock.Anything, domain.Wallet{Address: receiver}, samePeriod(period), "").
		Return(&domain.TransactionResult{
			Payments:                 []*domain.Payment{incoming},
			Period:                   period,
			HasMaxPageCounterReached: true,
			NextMarker:               `{"ledger":5,"seq":1}`,
		}, nil).Once()

	url := fmt.Sprintf("/api/v1/wallets/%s/payments?from=%s&to=%s", receiver, from.Format(time.RFC3339), to.Format(time.RFC3339))
	w := suite.do(http.MethodGet, url, nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var first dto.ReceivedPaymentsResponse
	suite.decode(w, &first)
	suite.Require().Len(first.Payments, 1)
	suite.Equal("H1", first.Payments[0].TransactionID)
	suite.Equal("3", first.Payments[0].Amount)
	suite.True(first.Truncated)
	suite.Require().NotEmpty(first.NextPageToken)

	suite.payments.On("ListPaymentsReceived", mock.Anything, domain.Wallet{Address: receiver}, samePeriod(period), `{"ledger":5,"seq":1}`).
		Return(&domain.TransactionResult{Payments: []*domain.Payment{}, Period: period}, nil).Once()

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/wallets/%s/payments?page_token=%s", receiver, first.NextPageToken), nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second dto.ReceivedPaymentsResponse
	suite.decode(w, &second)
	suite.Empty(second.Payments)
	suite.Empty(second.NextPageToken)
}

func (suite *HandlerTestSuite) TestReceivedPayments_InvalidInput() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/wallets/nope/payments", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/wallets/"+receiver+"/payments?page_token=not*base64", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet,
		"/api/v1/wallets/"+receiver+"/payments?from=2024-03-02T00:00:00Z&to=2024-03-01T00:00:00Z", nil).Code)
}

func (suite *HandlerTestSuite) TestDecodeMemo() {
	payload := `{"v":1,"CdOrPrtry":[{"t":"Scor","v":"RF18539007547034"}],"ft":["thanks"]}`
	w := suite.do(http.MethodPost, "/api/v1/memos/decode", dto.DecodeMemoRequest{Memo: fmt.Sprintf("%X", payload), Hex: true})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.MemoResponse
	suite.decode(w, &res)
	suite.Equal("DECODED", res.Status)
	suite.Equal([]dto.ReferenceDTO{{Type: "Scor", Value: "RF18539007547034"}}, res.References)
	suite.Equal([]string{"thanks"}, res.FreeText)

	w = suite.do(http.MethodPost, "/api/v1/memos/decode", dto.DecodeMemoRequest{Memo: "zz", Hex: true})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestEncodeMemo() {
	w := suite.do(http.MethodPost, "/api/v1/memos/encode", dto.EncodeMemoRequest{FreeText: []string{"hi"}})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.EncodeMemoResponse
	suite.decode(w, &res)
	suite.JSONEq(`{"v":1,"CdOrPrtry":[],"ft":["hi"]}`, res.Memo)
	suite.Equal(fmt.Sprintf("%X", res.Memo), res.Hex)
	suite.Equal("json", res.Format)
}

func (suite *HandlerTestSuite) TestLedgerAt() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.ledger.On("IndexAt", mock.Anything, mock.MatchedBy(at.Equal)).
		Return(domain.LedgerAtTime{Index: 1234, PointInTime: at.Add(2 * time.Second)}, true, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/at?time=2024-03-01T12:00:00Z", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.LedgerAtResponse
	suite.decode(w, &res)
	suite.Equal(uint32(1234), res.Index)
}

func (suite *HandlerTestSuite) TestLedgerAt_Unavailable() {
	suite.ledger.On("IndexAt", mock.Anything, mock.Anything).Return(domain.LedgerAtTime{}, false, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/at?time=2001-01-01T00:00:00Z", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestLedgerStatus() {
	suite.ledger.On("Status", mock.Anything).Return(&portssvc.LedgerStatus{
		Ledger:         domain.XRPL,
		ValidatedIndex: 90000,
		BaseFee:        domain.NewMoney(decimal.RequireFromString("0.00001"), domain.XRPL.Native()),
		OpenLedgerFee:  domain.NewMoney(decimal.RequireFromString("0.000012"), domain.XRPL.Native()),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/status", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.LedgerStatusResponse
	suite.decode(w, &res)
	suite.Equal(dto.LedgerStatusResponse{Ledger: "xrpl", NativeCurrency: "XRP", ValidatedIndex: 90000, BaseFee: "0.00001", OpenLedgerFee: "0.000012"}, res)
}

func (suite *HandlerTestSuite) TestCreateCurrency() {
	req := dto.CreateCurrencyRequest{CurrencyCode: "EURS", Issuer: sender, Symbol: "€", Name: "Euro stable", TransferFee: decimal.RequireFromString("0.002")}
	suite.currencies.On("CreateCurrency", mock.Anything, mock.MatchedBy(func(r dto.CreateCurrencyRequest) bool {
		return r.CurrencyCode == "EURS" && r.Issuer == sender && r.TransferFee.Equal(req.TransferFee)
	}), operatorID).Return(&domain.CurrencyDefinition{CurrencyCode: "EURS", Issuer: sender, Name: "Euro stable", Precision: 2}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/currencies", req)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.CurrencyResponse
	suite.decode(w, &res)
	suite.Equal("EURS", res.CurrencyCode)
	suite.Equal(sender, res.Issuer)
}

func (suite *HandlerTestSuite) TestCreateCurrency_Duplicate() {
	suite.currencies.On("CreateCurrency", mock.Anything, mock.Anything, operatorID).
		Return(nil, fmt.Errorf("failed to create currency in service: %w", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/currencies", dto.CreateCurrencyRequest{CurrencyCode: "CHF", Symbol: "Fr", Name: "Swiss franc"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGetCurrency() {
	suite.currencies.On("GetCurrencyByCode", mock.Anything, "USD", sender).
		Return(&domain.CurrencyDefinition{CurrencyCode: "USD", Issuer: sender}, nil).Once()
	suite.currencies.On("GetCurrencyByCode", mock.Anything, "JPY", "").
		Return(nil, apperrors.ErrNotFound).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/currencies/USD?issuer="+sender, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/currencies/JPY", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/currencies/X", nil).Code)
}

func (suite *HandlerTestSuite) TestListExchangeRates() {
	rate := domain.NewExchangeRate(domain.NewCurrencyPair(domain.NewCurrency("CHF"), domain.NewCurrency("XRP")))
	suite.Require().NoError(rate.SetRate(decimal.NewFromInt(2)))
	suite.rates.On("ListExchangeRates", mock.Anything, 100).Return([]domain.ExchangeRate{*rate}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res []dto.ExchangeRateResponse
	suite.decode(w, &res)
	suite.Require().Len(res, 1)
	suite.Equal("CHF", res[0].FromCurrencyCode)
	suite.True(res[0].Rate.Equal(decimal.NewFromInt(2)))
}

func (suite *HandlerTestSuite) TestGetExchangeRate_ServiceErrors() {
	suite.rates.On("GetExchangeRate", mock.Anything, "CHF", "XRP").Return(nil, apperrors.NewNotFoundError("exchange rate not found")).Once()
	suite.rates.On("GetExchangeRate", mock.Anything, "CHF", "EUR").Return(nil, errors.New("connection reset")).Once()

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/exchange-rates/CHF/XRP", nil).Code)
	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/CHF/EUR", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *HandlerTestSuite) TestAccountMappings() {
	req := dto.CreateAccountMappingRequest{BankAccount: "CH93 0076 2011 6238 5295 7", WalletAddress: receiver}
	suite.mappings.On("SaveMapping", mock.Anything, req, operatorID).Return(&domain.AccountMapping{
		MappingID:     "m-1",
		LedgerID:      domain.LedgerXRPL,
		BankAccount:   domain.NewBankAccount(req.BankAccount),
		WalletAddress: receiver,
	}, nil).Once()
	suite.mappings.On("DeleteMapping", mock.Anything, "m-1").Return(nil).Once()
	suite.mappings.On("DeleteMapping", mock.Anything, "m-2").Return(apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, "/api/v1/account-mappings", req)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.AccountMappingResponse
	suite.decode(w, &res)
	suite.Equal("CH9300762011623852957", res.BankAccount)

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/account-mappings/m-1", nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodDelete, "/api/v1/account-mappings/m-2", nil).Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
