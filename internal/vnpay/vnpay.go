package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"shopviet-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	version       = "2.1.0"
	commandPay    = "pay"
	commandQuery  = "querydr"
	currencyCode  = "VND"
	locale        = "vn"
	orderType     = "other"
	timeLayout    = "20060102150405"
	paymentExpiry = 15 * time.Minute
)

var (
	ErrMissingSignature = errors.New("missing secure hash")
	ErrMissingOrderRef  = errors.New("missing transaction reference")
)

type Config struct {
	TmnCode    string
	HashSecret string
	GatewayURL string
	ReturnURL  string
}

// Client builds signed redirect URLs for the hosted payment page and
// authenticates inbound gateway callbacks.
type Client struct {
	cfg Config
	loc *time.Location
	now func() time.Time
}

func New(cfg Config) *Client {
	if cfg.TmnCode == "" || cfg.HashSecret == "" {
		logger.L().Warn("VNPay configuration incomplete")
	}

	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		logger.L().Error("failed to load Ho Chi Minh location, defaulting to UTC", zap.Error(err))
		loc = time.UTC
	}

	return &Client{cfg: cfg, loc: loc, now: time.Now}
}

type PaymentRequest struct {
	OrderRef  string
	Amount    decimal.Decimal
	OrderInfo string
	ClientIP  string
	BankCode  string
}

// CallbackResult is the normalized view of the gateway's return/callback
// parameters.
type CallbackResult struct {
	OrderRef          string
	Amount            decimal.Decimal
	OrderInfo         string
	ResponseCode      string
	TransactionNo     string
	BankCode          string
	BankTranNo        string
	CardType          string
	PayDate           *time.Time
	TransactionStatus string
}

// BuildPaymentURL assembles the redirect URL for the hosted payment page.
// The gateway requires parameters sorted lexicographically by key and
// signed as an unencoded query string with HMAC-SHA512.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.OrderRef == "" {
		return "", ErrMissingOrderRef
	}

	now := c.now().In(c.loc)

	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    commandPay,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Locale":     locale,
		"vnp_CurrCode":   currencyCode,
		"vnp_TxnRef":     req.OrderRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  orderType,
		"vnp_Amount":     strconv.FormatInt(toMinorUnits(req.Amount), 10),
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": now.Format(timeLayout),
		"vnp_ExpireDate": now.Add(paymentExpiry).Format(timeLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	signData := canonicalQuery(params)
	params["vnp_SecureHash"] = c.sign(signData)

	return c.cfg.GatewayURL + "?" + canonicalQuery(params), nil
}

// VerifyCallback strips the signature fields, re-signs the sorted
// remainder and compares digests in constant time.
func (c *Client) VerifyCallback(values url.Values) bool {
	got := values.Get("vnp_SecureHash")
	if got == "" {
		return false
	}

	params := make(map[string]string, len(values))
	for key := range values {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		params[key] = values.Get(key)
	}

	want := c.sign(canonicalQuery(params))

	gotRaw, err := hex.DecodeString(got)
	if err != nil {
		return false
	}
	wantRaw, _ := hex.DecodeString(want)

	return hmac.Equal(gotRaw, wantRaw)
}

// ParseCallback maps the gateway parameter names onto a normalized
// payment result. Amounts come back scaled by 100.
func (c *Client) ParseCallback(values url.Values) (*CallbackResult, error) {
	ref := values.Get("vnp_TxnRef")
	if ref == "" {
		return nil, ErrMissingOrderRef
	}

	res := &CallbackResult{
		OrderRef:          ref,
		OrderInfo:         values.Get("vnp_OrderInfo"),
		ResponseCode:      values.Get("vnp_ResponseCode"),
		TransactionNo:     values.Get("vnp_TransactionNo"),
		BankCode:          values.Get("vnp_BankCode"),
		BankTranNo:        values.Get("vnp_BankTranNo"),
		CardType:          values.Get("vnp_CardType"),
		TransactionStatus: values.Get("vnp_TransactionStatus"),
	}

	if raw := values.Get("vnp_Amount"); raw != "" {
		minor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		res.Amount = fromMinorUnits(minor)
	}

	if raw := values.Get("vnp_PayDate"); raw != "" {
		t, err := time.ParseInLocation(timeLayout, raw, c.loc)
		if err == nil {
			res.PayDate = &t
		}
	}

	return res, nil
}

// BuildQueryRequest assembles a signed transaction-status query payload
// for the merchant API.
func (c *Client) BuildQueryRequest(orderRef, transDate, clientIP string) map[string]string {
	now := c.now().In(c.loc)

	params := map[string]string{
		"vnp_RequestId":       now.Format(timeLayout) + orderRef,
		"vnp_Version":         version,
		"vnp_Command":         commandQuery,
		"vnp_TmnCode":         c.cfg.TmnCode,
		"vnp_TxnRef":          orderRef,
		"vnp_OrderInfo":       "Query transaction " + orderRef,
		"vnp_TransactionDate": transDate,
		"vnp_CreateDate":      now.Format(timeLayout),
		"vnp_IpAddr":          clientIP,
	}

	params["vnp_SecureHash"] = c.sign(canonicalQuery(params))
	return params
}

func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalQuery joins params as an unencoded query string with keys in
// lexicographic order, the exact byte sequence both parties sign.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}
