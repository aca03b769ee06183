package handler

import (
	"net/http"

	"github.com/vpicolo/fabrica-manager-api/internal/api/handler/router"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/authenticating"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/demanding"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/oauth"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/ordering"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/stocking"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/syncing"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/webhooking"
	"github.com/vpicolo/fabrica-manager-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Webhook registra a rota pública de recepção de eventos. A autenticação
// é feita pela assinatura HMAC, não por token de usuário.
func Webhook(service webhooking.Webhooker) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/webhook/:integration",
			Method:  http.MethodPost,
			Handler: ReceiveWebhook(service),
		},
		{
			Path:        "/v1/webhook-status",
			Method:      http.MethodGet,
			Handler:     GetWebhookStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sync(service syncing.OrderSyncer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/progress",
			Method:  http.MethodGet,
			Handler: GetSyncProgress(service),
		},
		{
			Path:        "/v1/sync/smart",
			Method:      http.MethodPost,
			Handler:     TriggerSmartSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sync/full",
			Method:      http.MethodPost,
			Handler:     TriggerFullSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/orders",
			Method:      http.MethodDelete,
			Handler:     DeleteAllOrders(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Orders(service ordering.Orderer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/orders",
			Method:      http.MethodGet,
			Handler:     ListOrders(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/orders/:id",
			Method:      http.MethodGet,
			Handler:     GetOrder(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Demand(service demanding.Demander) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/demand",
			Method:      http.MethodGet,
			Handler:     GetDemand(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func Stock(service stocking.Stocker) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stock",
			Method:      http.MethodGet,
			Handler:     ListStock(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stock/:sku",
			Method:      http.MethodGet,
			Handler:     GetStock(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stock/:sku/refresh",
			Method:      http.MethodPost,
			Handler:     RefreshStock(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/stock/:sku/movements",
			Method:      http.MethodPost,
			Handler:     RecordStockMovement(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/stock/:sku/movements",
			Method:      http.MethodGet,
			Handler:     ListStockMovements(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stock/:sku/thresholds",
			Method:      http.MethodGet,
			Handler:     GetStockThreshold(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stock/:sku/thresholds",
			Method:      http.MethodPut,
			Handler:     SaveStockThreshold(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

// OAuth registra o fluxo de autorização. O callback é público porque é
// alcançado pelo redirect do marketplace; o state faz a validação.
func OAuth(service oauth.Connector) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/oauth/:integration/authorize-url",
			Method:      http.MethodGet,
			Handler:     GetAuthorizeURL(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:    "/v1/oauth/:integration/callback",
			Method:  http.MethodGet,
			Handler: OAuthCallback(service),
		},
		{
			Path:        "/v1/oauth/:integration/status",
			Method:      http.MethodGet,
			Handler:     GetIntegrationStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/oauth/:integration",
			Method:      http.MethodDelete,
			Handler:     DisconnectIntegration(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
