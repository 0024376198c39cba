// Package hosted serves the checkout page from a localhost listener and
// relays the widget's completion or dismissal back to the waiting attempt.
package hosted

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greencart/checkout-client/internal/checkout"
	"github.com/greencart/checkout-client/pkg/config"
	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
	"github.com/greencart/checkout-client/pkg/logger"
	"github.com/greencart/checkout-client/pkg/storefront"
)

const shutdownGrace = 3 * time.Second

// Gateway hosts the checkout page on a loopback listener for the duration of
// one Collect call.
type Gateway struct {
	cfg  config.CheckoutConfig
	logg *logger.Logger
	tmpl *template.Template

	// openURL is how the customer reaches the page; overridable in tests.
	openURL func(ctx context.Context, url string)
}

// Option adjusts the hosted gateway.
type Option func(*Gateway)

// WithOpenURL overrides how the checkout page URL is surfaced to the
// customer.
func WithOpenURL(fn func(ctx context.Context, url string)) Option {
	return func(g *Gateway) {
		g.openURL = fn
	}
}

// New builds a hosted gateway from the checkout configuration.
func New(cfg config.CheckoutConfig, logg *logger.Logger, opts ...Option) (*Gateway, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RazorpayKeyID == "" {
		return nil, fmt.Errorf("razorpay key id required")
	}
	tmpl, err := template.New("checkout").Parse(checkoutPage)
	if err != nil {
		return nil, fmt.Errorf("parsing checkout page template: %w", err)
	}

	gateway := &Gateway{
		cfg:  cfg,
		logg: logg,
		tmpl: tmpl,
	}
	gateway.openURL = gateway.logOpenURL
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway, nil
}

func (g *Gateway) logOpenURL(ctx context.Context, url string) {
	g.logg.Notify(ctx, "Open "+url+" to complete the payment")
}

// Collect serves the checkout page for the given order and blocks until the
// customer completes, dismisses, or ctx ends. The first signal wins; later
// callbacks for the same attempt are acknowledged and dropped.
func (g *Gateway) Collect(ctx context.Context, order storefront.PaymentOrder, prefill checkout.Prefill) (checkout.Outcome, error) {
	if order.OrderID == "" {
		return checkout.Outcome{}, pkgerrors.New(pkgerrors.CodeInitiation, "payment order has no id")
	}

	listener, err := net.Listen("tcp", g.cfg.ListenAddr)
	if err != nil {
		return checkout.Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInitiation, err, "listen for checkout callbacks")
	}

	signals := make(chan checkout.Outcome, 1)
	var once sync.Once
	signal := func(outcome checkout.Outcome) {
		once.Do(func() {
			signals <- outcome
		})
	}

	server := &http.Server{Handler: g.router(order, prefill, signal)}
	serveErrs := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			serveErrs <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	pageURL := fmt.Sprintf("http://%s/", listener.Addr().String())
	g.openURL(ctx, pageURL)

	select {
	case outcome := <-signals:
		return outcome, nil
	case err := <-serveErrs:
		return checkout.Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout callback server")
	case <-ctx.Done():
		return checkout.Outcome{}, pkgerrors.Wrap(pkgerrors.CodeCancelled, ctx.Err(), "checkout abandoned")
	}
}

func (g *Gateway) router(order storefront.PaymentOrder, prefill checkout.Prefill, signal func(checkout.Outcome)) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := g.tmpl.Execute(w, checkoutPageData{
			ScriptURL:   g.cfg.ScriptURL,
			KeyID:       g.cfg.RazorpayKeyID,
			OrderID:     order.OrderID,
			AmountMinor: order.AmountMinor,
			Currency:    order.Currency,
			BrandName:   g.cfg.BrandName,
			ThemeColor:  g.cfg.ThemeColor,
			Prefill:     prefill,
		})
		if err != nil {
			g.logg.Warn(g.logg.WithField(r.Context(), "error", err.Error()), "rendering checkout page")
		}
	})

	router.Post("/callback", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad callback", http.StatusBadRequest)
			return
		}
		result := storefront.VerificationResult{
			OrderID:   r.PostFormValue("razorpay_order_id"),
			PaymentID: r.PostFormValue("razorpay_payment_id"),
			Signature: r.PostFormValue("razorpay_signature"),
		}
		if result.OrderID == "" || result.PaymentID == "" || result.Signature == "" {
			http.Error(w, "incomplete callback", http.StatusBadRequest)
			return
		}
		signal(checkout.Outcome{Completed: &result})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, closedPage)
	})

	router.Get("/cancel", func(w http.ResponseWriter, r *http.Request) {
		signal(checkout.Outcome{Cancelled: true})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, closedPage)
	})

	return router
}

type checkoutPageData struct {
	ScriptURL   string
	KeyID       string
	OrderID     string
	AmountMinor int64
	Currency    string
	BrandName   string
	ThemeColor  string
	Prefill     checkout.Prefill
}

const checkoutPage = `<!doctype html>
<html>
<head><title>{{.BrandName}} Checkout</title></head>
<body>
<script src="{{.ScriptURL}}"></script>
<script>
var options = {
  key: {{.KeyID}},
  amount: {{.AmountMinor}},
  currency: {{.Currency}},
  name: {{.BrandName}},
  description: "Order Payment",
  order_id: {{.OrderID}},
  prefill: {
    name: {{.Prefill.Name}},
    email: {{.Prefill.Email}},
    contact: {{.Prefill.Phone}}
  },
  theme: { color: {{.ThemeColor}} },
  handler: function (response) {
    var form = new URLSearchParams();
    form.set("razorpay_order_id", response.razorpay_order_id);
    form.set("razorpay_payment_id", response.razorpay_payment_id);
    form.set("razorpay_signature", response.razorpay_signature);
    fetch("/callback", { method: "POST", body: form }).then(function () {
      document.body.innerHTML = "<p>Payment recorded. You can close this tab.</p>";
    });
  },
  modal: {
    ondismiss: function () {
      fetch("/cancel").then(function () {
        document.body.innerHTML = "<p>Checkout cancelled. You can close this tab.</p>";
      });
    }
  }
};
new Razorpay(options).open();
</script>
</body>
</html>
`

const closedPage = `<!doctype html>
<html><body><p>You can close this tab.</p></body></html>
`
