package router

import (
	"net/http"
	"time"

	authsvc "ngo-connect-backend/internal/application/auth"
	"ngo-connect-backend/internal/application/catalog"
	"ngo-connect-backend/internal/application/emails"
	healthsvc "ngo-connect-backend/internal/application/health"
	llmsvc "ngo-connect-backend/internal/application/llm"
	matchsvc "ngo-connect-backend/internal/application/matching"
	mediasvc "ngo-connect-backend/internal/application/media"
	paysvc "ngo-connect-backend/internal/application/payments"
	profilesvc "ngo-connect-backend/internal/application/profile"
	translatesvc "ngo-connect-backend/internal/application/translation"
	"ngo-connect-backend/internal/config"
	"ngo-connect-backend/internal/constants"
	"ngo-connect-backend/internal/infrastructure/storage"
	authhandler "ngo-connect-backend/internal/interfaces/handlers/auth"
	healthhandler "ngo-connect-backend/internal/interfaces/handlers/health"
	llmhandler "ngo-connect-backend/internal/interfaces/handlers/llm"
	matchhandler "ngo-connect-backend/internal/interfaces/handlers/matching"
	mediahandler "ngo-connect-backend/internal/interfaces/handlers/media"
	payhandler "ngo-connect-backend/internal/interfaces/handlers/payments"
	profilehandler "ngo-connect-backend/internal/interfaces/handlers/profile"
	translatehandler "ngo-connect-backend/internal/interfaces/handlers/translation"
	"ngo-connect-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide clients the API is built from. Nil providers
// leave their features unconfigured; Rdb may be nil.
type Deps struct {
	DB  *gorm.DB
	Rdb *redis.Client

	Store mediasvc.ObjectStore
	// Files is set when Store is the in-process store served under /media.
	Files *storage.Memory

	Translator translatesvc.Provider
	LLM        llmsvc.Completer
	QR         paysvc.QRGenerator
	Mail       emails.Sender
}

// CreateApp wires services, middleware and routes.
func CreateApp(cfg *config.Config, deps Deps) *fiber.App {
	// two images plus form overhead
	bodyLimit := fiber.DefaultBodyLimit
	if n := int(cfg.UploadMaxBytes)*2 + 1<<20; n > bodyLimit {
		bodyLimit = n
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               bodyLimit,
	})

	if deps.Store == nil {
		mem := storage.NewMemory("/media")
		deps.Store, deps.Files = mem, mem
	}

	tokens := &authsvc.TokenManager{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Rdb:        deps.Rdb,
	}

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	if cfg.MetricsEnabled {
		app.Use(middleware.Metrics())
	}
	app.Use(middleware.HealthMarker(deps.Rdb))
	app.Use(middleware.Session(tokens))

	// Health
	hh := &healthhandler.Handlers{
		Service:        &healthsvc.Service{DB: deps.DB, Rdb: deps.Rdb, Started: time.Now()},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/main/health", hh.Check)
	app.Get("/health/json", hh.JSON)
	app.Post("/health/reset", hh.Reset)
	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	publicURL := profilesvc.URLFunc(deps.Store.PublicURL)

	// Auth
	ah := &authhandler.Handlers{Service: &authsvc.Service{DB: deps.DB, Tokens: tokens, Mail: deps.Mail}}
	ag := app.Group("/auth")
	ag.Post("/signup", ah.Signup)
	ag.Post("/login", ah.Login)
	ag.Post("/refresh", ah.Refresh)
	ag.Post("/logout", middleware.RequireAuth(), ah.Logout)
	ag.Get("/user", middleware.RequireAuth(), ah.CurrentUser)

	// Profiles
	ph := &profilehandler.Handlers{
		Service: &profilesvc.Service{DB: deps.DB, PublicURL: publicURL},
		Catalog: &catalog.Service{DB: deps.DB},
	}
	manageOrg := middleware.AuthorizePermission(constants.ManageOrgProfile)
	viewProfiles := middleware.AuthorizePermission(constants.ViewProfiles)
	manageSkills := middleware.AuthorizePermission(constants.ManageVolunteerSkills)
	pg := app.Group("/profile", middleware.RequireAuth())
	pg.Post("/org", manageOrg, ph.CreateOrg)
	pg.Post("/org/projects_initiatives", manageOrg, ph.StoreProjectsInitiatives)
	pg.Get("/load_org", viewProfiles, ph.LoadOrg)
	pg.Post("/edit_basic_info", manageOrg, ph.EditBasicInfo)
	pg.Post("/edit_projects", manageOrg, ph.EditProjects)
	pg.Post("/edit_initiatives", manageOrg, ph.EditInitiatives)
	pg.Post("/edit_skills", manageOrg, ph.EditSkills)
	pg.Get("/all_skills", viewProfiles, ph.AllSkills)
	pg.Post("/volunteer", manageSkills, ph.SubmitVolunteer)
	pg.Get("/volunteer", viewProfiles, ph.GetVolunteer)
	pg.Post("/volunteer/edit", manageSkills, ph.EditVolunteer)

	// Media
	mh := &mediahandler.Handlers{
		Service: &mediasvc.Service{DB: deps.DB, Store: deps.Store, MaxBytes: cfg.UploadMaxBytes},
		Files:   deps.Files,
	}
	pg.Post("/upload-images", middleware.AuthorizePermission(constants.UploadOrgMedia), mh.UploadImages)
	if deps.Files != nil {
		app.Get("/media/*", mh.Serve)
	}

	// Donation QR
	qh := &payhandler.Handlers{Service: &paysvc.Service{DB: deps.DB, Client: deps.QR}}
	pg.Post("/generate-qr", middleware.AuthorizePermission(constants.GenerateDonationQR), qh.GenerateQR)

	// Listing and matching are public.
	mch := &matchhandler.Handlers{Service: &matchsvc.Service{DB: deps.DB, PublicURL: publicURL}}
	app.Get("/main/orgs", mch.ListOrgs)
	app.Get("/main/match-skills", mch.MatchSkills)

	// Translation
	th := &translatehandler.Handlers{Service: translatesvc.NewService(deps.DB, deps.Translator, cfg.TranslationMemoSize)}
	app.Post("/main/translate", th.Translate)
	app.Post("/main/translate-batch", th.TranslateBatch)
	app.Get("/api/supported-languages", th.SupportedLanguages)

	// Content generation
	lh := &llmhandler.Handlers{Service: &llmsvc.Service{Client: deps.LLM}}
	app.Post("/claude/generate", middleware.RequireAuth(),
		middleware.AuthorizePermission(constants.GenerateContent), lh.Generate)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
