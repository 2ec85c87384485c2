package webhooks

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/verduraria/backend/api/responses"
	checkoutsvc "github.com/verduraria/backend/internal/checkout"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
	"github.com/verduraria/backend/pkg/mercadopago"
)

// mercadoPagoNotification is the webhook body. Mercado Pago also delivers
// the same information as query parameters (topic + id), so both are read.
type mercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago consumes payment notifications. The notification only carries
// a payment id; the payment itself is fetched back from the gateway, which
// both authenticates the event and yields the order reference. Deliveries
// are retried by the gateway, so the handler must stay idempotent: repeat
// confirmations hit the paid-terminal check and change nothing.
func MercadoPago(svc checkoutsvc.Service, gateway mercadopago.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured"))
			return
		}

		var notification mercadoPagoNotification
		if r.Body != nil {
			// a malformed body is not fatal; query params may still identify
			// the payment
			_ = json.NewDecoder(r.Body).Decode(&notification)
		}

		topic := notification.Type
		if topic == "" {
			topic = r.URL.Query().Get("topic")
		}
		if topic != "" && topic != "payment" {
			// merchant_order and test notifications are acknowledged unseen
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}

		paymentID := strings.TrimSpace(notification.Data.ID)
		if paymentID == "" {
			paymentID = strings.TrimSpace(r.URL.Query().Get("id"))
		}
		if paymentID == "" {
			paymentID = strings.TrimSpace(r.URL.Query().Get("data.id"))
		}
		if paymentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment id missing from notification"))
			return
		}

		payment, err := gateway.GetPayment(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching payment"))
			return
		}

		orderID, err := uuid.Parse(payment.ExternalReference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment carries no order reference"))
			return
		}

		status, parseErr := enums.ParsePaymentStatus(payment.Status)
		if parseErr != nil {
			// unknown gateway states park the order in the pending bucket
			status = enums.PaymentStatusInProcess
		}

		order, err := svc.ApplyPaymentUpdate(r.Context(), orderID, checkoutsvc.PaymentInfo{
			Status:           status,
			GatewayPaymentID: paymentID,
			Method:           payment.PaymentMethodID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), order.ID.String())
		logg.Info(ctx, "payment notification applied")

		responses.WriteSuccess(w, map[string]any{
			"order_id": order.ID,
			"status":   order.Status,
		})
	}
}
