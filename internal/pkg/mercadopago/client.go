// FILE: internal/pkg/mercadopago/client.go
package mercadopago

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"github.com/mercadopago/sdk-go/pkg/preapprovalplan"
)

// PaymentInfo is the slice of a gateway payment the billing flow cares about.
type PaymentInfo struct {
	Id                string
	Status            string
	TransactionAmount float64
	PaymentMethodId   string
	DateApproved      *time.Time
	ExternalReference string
}

// PreapprovalInfo mirrors the recurring authorization held by the gateway.
type PreapprovalInfo struct {
	Id                string
	Status            string
	ExternalReference string
	NextPaymentDate   *time.Time
	TransactionAmount float64
	CurrencyId        string
}

type PreapprovalPlanInfo struct {
	Id        string
	InitPoint string
}

// Gateway abstracts the Mercado Pago REST API so services and tests do not
// depend on the SDK types directly.
type Gateway interface {
	GetPayment(ctx context.Context, id string) (*PaymentInfo, error)
	GetPreapproval(ctx context.Context, id string) (*PreapprovalInfo, error)
	CreatePreapprovalPlan(ctx context.Context, reason string, amount float64, backURL string) (*PreapprovalPlanInfo, error)
	CancelPreapproval(ctx context.Context, id string) error
}

type sdkGateway struct {
	paymentClient     payment.Client
	preapprovalClient preapproval.Client
	planClient        preapprovalplan.Client
}

func NewGateway(accessToken string) (Gateway, error) {
	cfg, err := config.New(accessToken, config.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &sdkGateway{
		paymentClient:     payment.NewClient(cfg),
		preapprovalClient: preapproval.NewClient(cfg),
		planClient:        preapprovalplan.NewClient(cfg),
	}, nil
}

func (g *sdkGateway) GetPayment(ctx context.Context, id string) (*PaymentInfo, error) {
	numericId, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", id, err)
	}

	resp, err := g.paymentClient.Get(ctx, numericId)
	if err != nil {
		return nil, fmt.Errorf("get payment %s: %w", id, err)
	}

	info := &PaymentInfo{
		Id:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		TransactionAmount: resp.TransactionAmount,
		PaymentMethodId:   resp.PaymentMethodID,
		ExternalReference: resp.ExternalReference,
	}
	if !resp.DateApproved.IsZero() {
		approved := resp.DateApproved
		info.DateApproved = &approved
	}
	return info, nil
}

func (g *sdkGateway) GetPreapproval(ctx context.Context, id string) (*PreapprovalInfo, error) {
	resp, err := g.preapprovalClient.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get preapproval %s: %w", id, err)
	}

	info := &PreapprovalInfo{
		Id:                resp.ID,
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}
	if !resp.NextPaymentDate.IsZero() {
		next := resp.NextPaymentDate
		info.NextPaymentDate = &next
	}
	if resp.AutoRecurring.TransactionAmount != 0 {
		info.TransactionAmount = resp.AutoRecurring.TransactionAmount
		info.CurrencyId = resp.AutoRecurring.CurrencyID
	}
	return info, nil
}

func (g *sdkGateway) CreatePreapprovalPlan(ctx context.Context, reason string, amount float64, backURL string) (*PreapprovalPlanInfo, error) {
	resp, err := g.planClient.Create(ctx, preapprovalplan.Request{
		Reason:  reason,
		BackURL: backURL,
		AutoRecurring: &preapprovalplan.AutoRecurringRequest{
			Frequency:         1,
			FrequencyType:     "months",
			TransactionAmount: amount,
			CurrencyID:        "ARS",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create preapproval plan: %w", err)
	}

	return &PreapprovalPlanInfo{
		Id:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}

func (g *sdkGateway) CancelPreapproval(ctx context.Context, id string) error {
	_, err := g.preapprovalClient.Update(ctx, id, preapproval.UpdateRequest{
		Status: "cancelled",
	})
	if err != nil {
		return fmt.Errorf("cancel preapproval %s: %w", id, err)
	}
	return nil
}
