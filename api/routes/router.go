package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taptune/taptune-backend/api/controllers"
	"github.com/taptune/taptune-backend/api/middleware"
	"github.com/taptune/taptune-backend/internal/cards"
	"github.com/taptune/taptune-backend/internal/connects"
	"github.com/taptune/taptune-backend/internal/enquiries"
	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/internal/orders"
	"github.com/taptune/taptune-backend/internal/payments"
	"github.com/taptune/taptune-backend/internal/profiles"
	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/internal/reviewcards"
	"github.com/taptune/taptune-backend/internal/teams"
	"github.com/taptune/taptune-backend/internal/users"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/metrics"
	"github.com/taptune/taptune-backend/pkg/redis"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Users         users.Service
	Cards         cards.Service
	Profiles      profiles.Service
	Orders        orders.Service
	Payments      payments.Service
	Connects      connects.Service
	ReviewCards   reviewcards.Service
	Teams         teams.Service
	Notifications notifications.Service
	Enquiries     enquiries.Service
	Referral      referral.Service
}

// Pingers are the infrastructure dependencies the readiness probe checks.
type Pingers struct {
	DB    controllers.Pinger
	Redis controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers Pingers,
	limiter redis.Limiter,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    pingers.DB,
			"redis": pingers.Redis,
		}))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	connectLimit := middleware.PublicRateLimit("connect", cfg.RateLimit.ConnectIPLimit, cfg.RateLimit, limiter, logg)
	enquiryLimit := middleware.PublicRateLimit("enquiry", cfg.RateLimit.EnquiryIPLimit, cfg.RateLimit, limiter, logg)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/cards", controllers.CardsCatalog(svcs.Cards, logg))
		r.Get("/plans", controllers.PlansList(svcs.Teams, false, logg))
		r.With(middleware.OptionalAuth(cfg.JWT, logg)).Get("/p/{viewId}", controllers.PublicProfile(svcs.Profiles, logg))
		r.With(connectLimit).Post("/p/{viewId}/connect", controllers.CaptureLead(svcs.Connects, logg))
		r.With(enquiryLimit).Post("/enquiries", controllers.EnquiryCreate(svcs.Enquiries, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/razorpay", controllers.RazorpayWebhook(svcs.Payments, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svcs.Users, logg))
		r.Post("/login", controllers.AuthLogin(svcs.Users, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/users/me", controllers.CurrentUser(svcs.Users, logg))

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", controllers.MyProfiles(svcs.Profiles, logg))
			r.Patch("/{profileId}", controllers.ProfileUpdate(svcs.Profiles, logg))
			r.Get("/{profileId}/connects", controllers.ProfileConnects(svcs.Connects, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(svcs.Orders, logg))
			r.Get("/", controllers.MyOrders(svcs.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/link", controllers.PaymentLinkCreate(svcs.Payments, logg))
			r.Post("/verify", controllers.PaymentVerify(svcs.Payments, logg))
		})

		r.Route("/connects", func(r chi.Router) {
			r.Get("/", controllers.MyConnects(svcs.Connects, logg))
			r.Patch("/{connectId}", controllers.ConnectLabelUpdate(svcs.Connects, logg))
		})

		r.Route("/review-orders", func(r chi.Router) {
			r.Post("/", controllers.ReviewOrderCreate(svcs.ReviewCards, logg))
			r.Get("/", controllers.MyReviewOrders(svcs.ReviewCards, logg))
		})

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", controllers.TeamCreate(svcs.Teams, logg))
			r.Get("/", controllers.TeamsList(svcs.Teams, logg))
			r.Get("/{teamId}", controllers.TeamDetail(svcs.Teams, logg))
			r.Patch("/{teamId}", controllers.TeamUpdate(svcs.Teams, logg))
			r.Delete("/{teamId}", controllers.TeamDelete(svcs.Teams, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.MyNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/staff/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireStaff(logg))

		r.Get("/users", controllers.UsersList(svcs.Users, logg))
		r.Get("/profiles", controllers.StaffProfilesList(svcs.Profiles, logg))
		r.Get("/profiles/{profileId}", controllers.StaffProfileDetail(svcs.Profiles, logg))
		r.Get("/connects", controllers.StaffConnectsList(svcs.Connects, logg))
		r.Get("/feed", controllers.StaffFeed(svcs.Notifications, logg))
		r.Get("/stats", controllers.SalesmanStats(svcs.Referral, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.StaffOrdersList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.StaffOrderDetail(svcs.Orders, logg))
			r.Patch("/{orderId}/status", controllers.StaffOrderStatus(svcs.Orders, logg))
			r.Get("/{orderId}/payments", controllers.OrderPayments(svcs.Payments, logg))
		})

		r.Route("/review-orders", func(r chi.Router) {
			r.Get("/", controllers.StaffReviewOrdersList(svcs.ReviewCards, logg))
			r.Get("/{reviewOrderId}", controllers.StaffReviewOrderDetail(svcs.ReviewCards, logg))
			r.Patch("/{reviewOrderId}/status", controllers.StaffReviewOrderStatus(svcs.ReviewCards, logg))
			r.Put("/{reviewOrderId}/design", controllers.StaffReviewOrderDesign(svcs.ReviewCards, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Post("/staff", controllers.StaffCreate(svcs.Users, logg))
		r.Post("/users/{userId}/activate", controllers.UserSetActive(svcs.Users, true, logg))
		r.Post("/users/{userId}/deactivate", controllers.UserSetActive(svcs.Users, false, logg))

		r.Route("/salesmen", func(r chi.Router) {
			r.Get("/", controllers.SalesmenList(svcs.Referral, logg))
			r.Post("/assign", controllers.SalesmanAssign(svcs.Referral, logg))
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", controllers.AdminCardsList(svcs.Cards, logg))
			r.Post("/", controllers.AdminCardCreate(svcs.Cards, logg))
			r.Get("/{cardId}", controllers.AdminCardDetail(svcs.Cards, logg))
			r.Patch("/{cardId}", controllers.AdminCardUpdate(svcs.Cards, logg))
			r.Post("/{cardId}/activate", controllers.AdminCardSetActive(svcs.Cards, true, logg))
			r.Post("/{cardId}/deactivate", controllers.AdminCardSetActive(svcs.Cards, false, logg))
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", controllers.AdminProfileCreate(svcs.Profiles, logg))
			r.Post("/transfer", controllers.AdminProfileTransfer(svcs.Profiles, logg))
			r.Post("/{profileId}/activate", controllers.AdminProfileSetActive(svcs.Profiles, true, logg))
			r.Post("/{profileId}/deactivate", controllers.AdminProfileSetActive(svcs.Profiles, false, logg))
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", controllers.PlansList(svcs.Teams, true, logg))
			r.Post("/", controllers.AdminPlanCreate(svcs.Teams, logg))
			r.Post("/{planId}/activate", controllers.AdminPlanSetActive(svcs.Teams, true, logg))
			r.Post("/{planId}/deactivate", controllers.AdminPlanSetActive(svcs.Teams, false, logg))
			r.Post("/assign", controllers.AdminPlanAssign(svcs.Teams, logg))
		})

		r.Route("/enquiries", func(r chi.Router) {
			r.Get("/", controllers.AdminEnquiriesList(svcs.Enquiries, logg))
			r.Post("/{enquiryId}/resolve", controllers.AdminEnquiryResolve(svcs.Enquiries, logg))
		})
	})

	return r
}
