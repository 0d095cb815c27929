package offeringservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// Client клиент для работы с OfferingService (услуги и аккаунты выплат практиков)
type Client struct {
	baseURL         string
	httpClient      *http.Client
	log             Logger
	defaultCurrency string
}

// NewClient создает новый экземпляр клиента OfferingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:             log,
		defaultCurrency: domain.DefaultCurrency,
	}
}

// WithDefaultCurrency валюта для услуг, у которых она не указана
func (c *Client) WithDefaultCurrency(currency string) *Client {
	if currency != "" {
		c.defaultCurrency = strings.ToLower(currency)
	}
	return c
}

// GetOffering получает услугу с текущей ценой
func (c *Client) GetOffering(ctx context.Context, offeringID int64) (*domain.ServiceOffering, error) {
	url := fmt.Sprintf("%s/internal/offerings/%d", c.baseURL, offeringID)

	var offering Offering
	if err := c.get(ctx, url, ErrOfferingNotFound, &offering); err != nil {
		if err != ErrOfferingNotFound {
			c.log.Error("OfferingService: GetOffering failed for offering_id=%d: %v", offeringID, err)
		}
		return nil, err
	}

	currency := strings.ToLower(offering.Currency)
	if currency == "" {
		currency = c.defaultCurrency
	}

	return &domain.ServiceOffering{
		ID:             offering.ID,
		PractitionerID: offering.PractitionerID,
		Price:          offering.Price,
		Currency:       currency,
		IsActive:       offering.IsActive,
	}, nil
}

// GetPayoutAccount получает аккаунт выплат практика
func (c *Client) GetPayoutAccount(ctx context.Context, practitionerID int64) (*domain.PayoutAccount, error) {
	url := fmt.Sprintf("%s/internal/practitioners/%d/payout-account", c.baseURL, practitionerID)

	var account PayoutAccount
	if err := c.get(ctx, url, ErrPayoutAccountNotFound, &account); err != nil {
		if err != ErrPayoutAccountNotFound {
			c.log.Error("OfferingService: GetPayoutAccount failed for practitioner_id=%d: %v", practitionerID, err)
		}
		return nil, err
	}

	return &domain.PayoutAccount{
		PractitionerID:     account.PractitionerID,
		DestinationAccount: account.AccountID,
		PayoutsEnabled:     account.PayoutsEnabled,
	}, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
