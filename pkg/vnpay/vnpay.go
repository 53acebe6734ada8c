// Package vnpay implements the VNPay payment gateway's request signing and
// response verification. Both are pure functions over query parameters: the
// signature is an HMAC-SHA512 over the parameters sorted by key and
// URL-encoded, excluding vnp_SecureHash itself.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const Version = "2.1.0"

type PaymentRequest struct {
	TmnCode   string
	Amount    float64 // VND
	TxnRef    string
	OrderInfo string
	ReturnURL string
	ClientIP  string
	BankCode  string
	CreatedAt time.Time
}

// signData builds the canonical sorted key=value string used for both signing
// and verifying.
func signData(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(pairs, "&")
}

func Sign(params map[string]string, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(signData(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the vnp_SecureHash of a return/IPN callback against
// the merchant secret. Comparison is constant-time.
func VerifySignature(params map[string]string, secret string) bool {
	got, ok := params["vnp_SecureHash"]
	if !ok || got == "" {
		return false
	}
	want := Sign(params, secret)
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(want))
}

// BuildPaymentURL assembles the signed redirect URL the customer opens to pay.
// Amount is multiplied by 100 per the gateway convention.
func BuildPaymentURL(payURL, secret string, req PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", fmt.Errorf("vnpay: empty txn ref")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("vnpay: non-positive amount %.2f", req.Amount)
	}

	params := map[string]string{
		"vnp_Version":    Version,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    req.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%.0f", req.Amount*100),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  req.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": req.CreatedAt.Format("20060102150405"),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	query := signData(params)
	return payURL + "?" + query + "&vnp_SecureHash=" + Sign(params, secret), nil
}

// IsSuccessResponse reports whether a verified callback carries the gateway's
// success codes.
func IsSuccessResponse(params map[string]string) bool {
	return params["vnp_ResponseCode"] == "00" && params["vnp_TransactionStatus"] == "00"
}
