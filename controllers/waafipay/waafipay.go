package waafipayControllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	liveAPIURL    = "https://api.waafipay.net/asm"
	sandboxAPIURL = "https://sandbox.waafipay.net/asm"

	// WaafiPay business-level success marker (RCS_SUCCESS).
	successResponseCode = "2001"

	paymentMethod = "MWALLET_ACCOUNT"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Item mirrors a cart line as the checkout flow submits it.
type Item struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// ConfirmRequest is the body of POST /waafipay/confirm.
type ConfirmRequest struct {
	Phone       string  `json:"phone"`
	Total       float64 `json:"total"`
	District    string  `json:"district"`
	Delivery    bool    `json:"delivery"`
	DeliveryFee float64 `json:"deliveryFee"`
	Items       []Item  `json:"items"`
}

// PurchaseResult is what a completed gateway round-trip yields.
type PurchaseResult struct {
	Simulated bool           // sandbox fallback was taken
	Gateway   map[string]any // raw gateway body, echoed to the caller
}

// GatewayError is a failed gateway round-trip. Transport errors (network,
// non-2xx) are the server's problem; business declines are the payer's.
type GatewayError struct {
	Transport bool
	Message   string
	Body      map[string]any
}

func (e *GatewayError) Error() string { return e.Message }

// getWaafiPayConfig reads the merchant credentials and picks the endpoint.
// WAAFIPAY_ENV selects live vs sandbox; WAAFIPAY_API_URL overrides the URL
// outright. Fails closed when any credential is absent.
func getWaafiPayConfig() (merchantUID, apiUserID, apiKey, apiURL string, live bool, err error) {
	merchantUID = os.Getenv("WAAFIPAY_MERCHANT_UID")
	apiUserID = os.Getenv("WAAFIPAY_API_USER_ID")
	apiKey = os.Getenv("WAAFIPAY_API_KEY")
	live = os.Getenv("WAAFIPAY_ENV") == "live"

	apiURL = os.Getenv("WAAFIPAY_API_URL")
	if apiURL == "" {
		if live {
			apiURL = liveAPIURL
		} else {
			apiURL = sandboxAPIURL
		}
	}

	if merchantUID == "" || apiUserID == "" || apiKey == "" {
		return "", "", "", "", false, fmt.Errorf("waafipay credentials missing")
	}
	return merchantUID, apiUserID, apiKey, apiURL, live, nil
}

// CreatePurchase issues one synchronous API_PURCHASE call to WaafiPay and
// maps the response. phone must already be in 252XXXXXXXXX form.
func CreatePurchase(phone string, total float64, description string, items []Item) (*PurchaseResult, error) {
	merchantUID, apiUserID, apiKey, apiURL, live, err := getWaafiPayConfig()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payloadItems := make([]map[string]any, 0, len(items))
	for _, it := range items {
		payloadItems = append(payloadItems, map[string]any{
			"itemId":      it.ID,
			"description": it.Title,
			"quantity":    it.Qty,
			"price":       it.Price,
		})
	}

	payload := map[string]any{
		"schemaVersion": "1.0",
		"requestId":     uuid.NewString(),
		"timestamp":     now.UTC().Format(time.RFC3339),
		"channelName":   "WEB",
		"serviceName":   "API_PURCHASE",
		"serviceParams": map[string]any{
			"merchantUid":   merchantUID,
			"apiUserId":     apiUserID,
			"apiKey":        apiKey,
			"paymentMethod": paymentMethod,
			"payerInfo": map[string]any{
				"accountNo": phone,
			},
			"transactionInfo": map[string]any{
				"referenceId": fmt.Sprintf("ORDER-%d", now.UnixMilli()),
				"invoiceId":   fmt.Sprintf("INV-%d", now.UnixMilli()),
				"amount":      total,
				"currency":    "USD",
				"description": description,
				"items":       payloadItems,
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode waafipay payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Transport: true, Message: fmt.Sprintf("failed to reach WaafiPay: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		// Keep whatever the gateway said so the caller can echo it.
		var gateway map[string]any
		if json.Unmarshal(body, &gateway) != nil {
			gateway = map[string]any{"raw": string(body)}
		}
		return nil, &GatewayError{
			Transport: true,
			Message:   fmt.Sprintf("waafipay API error (%d): %s", resp.StatusCode, string(body)),
			Body:      gateway,
		}
	}

	var gateway map[string]any
	if err := json.Unmarshal(body, &gateway); err != nil {
		return nil, &GatewayError{Transport: true, Message: fmt.Sprintf("failed to parse WaafiPay response: %v", err)}
	}

	code, _ := gateway["responseCode"].(string)
	if code != successResponseCode {
		if !live {
			// Sandbox credentials routinely decline; simulate success so the
			// storefront flow stays testable end to end.
			return &PurchaseResult{Simulated: true, Gateway: gateway}, nil
		}
		msg, _ := gateway["responseMsg"].(string)
		if msg == "" {
			msg = "Payment failed"
		}
		return nil, &GatewayError{Message: msg, Body: gateway}
	}

	return &PurchaseResult{Gateway: gateway}, nil
}

// ConfirmHandler is POST /waafipay/confirm. Every failure mode collapses to
// the uniform {status, message} envelope the storefront expects.
func ConfirmHandler(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Invalid request body"})
		return
	}

	if req.Phone == "" || req.Total <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Missing phone or total"})
		return
	}
	if req.District == "" || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Missing required fields"})
		return
	}

	phone := NormalizePhone(req.Phone)
	if !IsValidPhone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "ERROR",
			"message": "Invalid phone format. Use 252XXXXXXXXX (numbers only, no + or spaces)",
		})
		return
	}

	result, err := CreatePurchase(phone, req.Total, fmt.Sprintf("Vitmii Order (%s)", req.District), req.Items)
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			if gwErr.Transport {
				c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Payment failed", "waafipay": gwErr.Body})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": gwErr.Message, "waafipay": gwErr.Body})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Server configuration error"})
		return
	}

	if result.Simulated {
		c.JSON(http.StatusOK, gin.H{"status": "SUCCESS", "simulated": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "SUCCESS", "waafipay": result.Gateway})
}
