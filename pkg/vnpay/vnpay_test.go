package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testRequest() PaymentRequest {
	return PaymentRequest{
		TmnCode:   "CLINIC01",
		Amount:    350000,
		TxnRef:    "BK-20260315-093000-0042-1773552000",
		OrderInfo: "Booking BK-20260315-093000-0042",
		ReturnURL: "https://clinic.example/payments/return",
		ClientIP:  "203.0.113.7",
		CreatedAt: time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildPaymentURL(t *testing.T) {
	payURL, err := BuildPaymentURL("https://sandbox.vnpayment.vn/paymentv2/vpcpay.html", testSecret, testRequest())
	require.NoError(t, err)

	parsed, err := url.Parse(payURL)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
	assert.Equal(t, "pay", query.Get("vnp_Command"))
	// Amount is in hundredths of VND per the gateway convention.
	assert.Equal(t, "35000000", query.Get("vnp_Amount"))
	assert.Equal(t, "20260315093000", query.Get("vnp_CreateDate"))
	assert.NotEmpty(t, query.Get("vnp_SecureHash"))
}

func TestBuildPaymentURLRejectsBadInput(t *testing.T) {
	req := testRequest()
	req.TxnRef = ""
	_, err := BuildPaymentURL("https://pay.example", testSecret, req)
	assert.Error(t, err)

	req = testRequest()
	req.Amount = 0
	_, err = BuildPaymentURL("https://pay.example", testSecret, req)
	assert.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":            "BK-1",
		"vnp_Amount":            "35000000",
		"vnp_ResponseCode":      "00",
		"vnp_TransactionStatus": "00",
	}
	params["vnp_SecureHash"] = Sign(params, testSecret)

	assert.True(t, VerifySignature(params, testSecret))
	assert.False(t, VerifySignature(params, "wrong-secret"))
}

func TestVerifySignatureDetectsTampering(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef": "BK-1",
		"vnp_Amount": "35000000",
	}
	params["vnp_SecureHash"] = Sign(params, testSecret)

	params["vnp_Amount"] = "1"
	assert.False(t, VerifySignature(params, testSecret))
}

func TestVerifySignatureMissingHash(t *testing.T) {
	assert.False(t, VerifySignature(map[string]string{"vnp_TxnRef": "BK-1"}, testSecret))
}

func TestSignIgnoresHashAndEmptyParams(t *testing.T) {
	base := map[string]string{"vnp_TxnRef": "BK-1", "vnp_Amount": "100"}
	withNoise := map[string]string{
		"vnp_TxnRef":         "BK-1",
		"vnp_Amount":         "100",
		"vnp_BankCode":       "",
		"vnp_SecureHash":     "deadbeef",
		"vnp_SecureHashType": "HmacSHA512",
	}
	assert.Equal(t, Sign(base, testSecret), Sign(withNoise, testSecret))
}

func TestSignDataIsSortedAndEscaped(t *testing.T) {
	data := signData(map[string]string{
		"vnp_OrderInfo": "Booking BK 1",
		"vnp_Amount":    "100",
	})
	require.True(t, strings.HasPrefix(data, "vnp_Amount=100&"))
	assert.Contains(t, data, "Booking+BK+1")
}

func TestIsSuccessResponse(t *testing.T) {
	assert.True(t, IsSuccessResponse(map[string]string{
		"vnp_ResponseCode": "00", "vnp_TransactionStatus": "00",
	}))
	assert.False(t, IsSuccessResponse(map[string]string{
		"vnp_ResponseCode": "24", "vnp_TransactionStatus": "00",
	}))
	assert.False(t, IsSuccessResponse(map[string]string{}))
}
