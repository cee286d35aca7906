package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tips-admin-api/internal/application/auth"
	"github.com/tips-admin-api/internal/application/resource"
	"github.com/tips-admin-api/internal/application/session"
	"github.com/tips-admin-api/internal/config"
	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/guard"
	"github.com/tips-admin-api/internal/transport/http/handler"
	appmiddleware "github.com/tips-admin-api/internal/transport/http/middleware"
	"github.com/tips-admin-api/internal/transport/http/navstate"
	"golang.org/x/time/rate"
)

// Page guard declarations. Order matters: the first guard to redirect or
// substitute wins.
var (
	loginPage        = guard.MustChain(guard.View{Name: "login"}, "LoggedUserCanNotOpen")
	signupPage       = guard.MustChain(guard.View{Name: "signup"}, "LoggedUserCanNotOpen")
	forgotPage       = guard.MustChain(guard.View{Name: "forgot"}, "LoggedUserCanNotOpen")
	verifyPage       = guard.MustChain(guard.View{Name: "verify"}, "ValidateVerifyState")
	otpPage          = guard.MustChain(guard.View{Name: "otp"}, "ValidateOtpState")
	resetPage        = guard.MustChain(guard.View{Name: "reset_password"}, "ThereOtpAndPhoneOrEmail")
	signupDonePage   = guard.MustChain(guard.View{Name: "signup_done"}, "FromSignupShouldBeLogined")
	profilePage      = guard.MustChain(guard.View{Name: "profile"}, "FromSignupShouldBeLoginedAndNotVerified")
	adminSectionPage = guard.MustChain(guard.View{Name: "admin_section"}, "PrivatePages")
	adminRecordPage  = guard.MustChain(guard.View{Name: "admin_record"}, "PrivatePages")
)

// NewRouter builds and returns the application router. ctx bounds background
// work such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo:       deps.UserRepo,
		SessionRepo:    deps.SessionRepo,
		Tokens:         deps.Tokens,
		GoogleVerifier: deps.GoogleVerifier,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		Sessions:         sessionSvc,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
		OTPExpiry:        cfg.OTPExpiry,
	})
	resourceSvc := resource.NewService(deps.RecordRepo)

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", navstate.HeaderName},
		ExposedHeaders:   []string{"Location", handler.ReplaceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.Session(sessionSvc))

	// 5 requests/second, burst of 10, per client IP.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	healthH := handler.NewHealthHandler(deps.Ready)
	authH := handler.NewAuthHandler(sessionSvc, authSvc, handler.CookieOptions{
		Domain:   cfg.CookieDomain,
		Secure:   cfg.CookieSecure,
		TokenTTL: cfg.JWTExpiry,
	})
	pageH := handler.NewPageHandler(cfg.Development())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Check)
		r.Post("/health-check/{action}", healthH.Check)

		r.Get("/sessions", handler.CurrentSession)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/logout", authH.Logout)
			r.Group(func(r chi.Router) {
				r.Use(sensitiveRL.Limit)
				r.Post("/login", authH.Login)
				r.Post("/google", authH.Google)
				r.Post("/signup", authH.Signup)
				r.Post("/otp/send", authH.SendOTP)
				r.Post("/otp/verify", authH.VerifyOTP)
				r.Post("/reset-password", authH.ResetPassword)
			})
		})

		r.Route("/pages", func(r chi.Router) {
			r.Use(appmiddleware.Navigation(cfg.CookieSecure))

			r.Get("/login", pageH.Serve(loginPage, nil))
			r.Get("/signup", pageH.Serve(signupPage, nil))
			r.Get("/forgot", pageH.Serve(forgotPage, nil))
			r.Get("/verify", pageH.Serve(verifyPage,
				handler.IntentEcho(domain.IntentFrom, domain.IntentPhone, domain.IntentEmail)))
			r.Get("/otp", pageH.Serve(otpPage,
				handler.IntentEcho(domain.IntentFrom, domain.IntentType, domain.IntentValue)))
			r.Get("/reset-password", pageH.Serve(resetPage,
				handler.IntentEcho(domain.IntentType, domain.IntentValue, domain.IntentOTPCode)))
			r.Get("/signup/done", pageH.Serve(signupDonePage, nil))
			r.Get("/profile/{slug}", pageH.Serve(profilePage, handler.SlugParts))
			r.Get("/admin/{resource}", pageH.Serve(adminSectionPage, handler.Section(resourceSvc)))
			r.Get("/admin/{resource}/{id}", pageH.Serve(adminRecordPage, handler.SectionItem(resourceSvc)))
		})
	})

	return r
}
