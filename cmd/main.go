package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/sarkar-crm/crm-service/internal/app"
	"github.com/sarkar-crm/crm-service/internal/config"
	"github.com/sarkar-crm/crm-service/internal/constants"
	"github.com/sarkar-crm/crm-service/internal/controllers"
	"github.com/sarkar-crm/crm-service/internal/middleware"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/routes"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

func main() {
	utils.InitLogger("crm-service")
	cfg := config.Load()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize crm-service:", err)
	}
	defer application.Close()

	storeRepo := repositories.NewStoreRepository(application.DB)
	floorRepo := repositories.NewFloorRepository(application.DB)
	categoryRepo := repositories.NewCategoryRepository(application.DB)
	productRepo := repositories.NewProductRepository(application.DB)
	customerRepo := repositories.NewCustomerRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	saleRepo := repositories.NewSaleRepository(application.DB)
	wfRepo := repositories.NewApprovalWorkflowRepository(application.DB)
	escalationRepo := repositories.NewEscalationRepository(application.DB)
	auditRepo := repositories.NewAuditLogRepository(application.DB)
	analyticsRepo := repositories.NewAnalyticsRepository(application.DB)

	if cfg.SeedTestData {
		if err := app.SeedTestData(
			context.Background(),
			storeRepo,
			floorRepo,
			categoryRepo,
			productRepo,
			userRepo,
			customerRepo,
			saleRepo,
		); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	var sgClient *sendgrid.Client
	if cfg.SendgridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendgridAPIKey)
	}
	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	notifier := services.NewNotificationService(cfg, sgClient, twClient)

	workflowService := services.NewWorkflowService(wfRepo, userRepo, notifier)
	saleService := services.NewSaleService(saleRepo, productRepo, customerRepo, workflowService)
	customerService := services.NewCustomerService(customerRepo, workflowService)
	productService := services.NewProductService(productRepo, categoryRepo, workflowService)
	floorService := services.NewFloorService(floorRepo, userRepo, workflowService)
	workflowService.SetExecutor(services.NewActionExecutor(
		saleService, customerService, productService, floorService,
	))

	authService := services.NewAuthService(cfg, userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	userService := services.NewUserService(userRepo)
	escalationService := services.NewEscalationService(escalationRepo, userRepo, notifier)
	analyticsService := services.NewAnalyticsService(analyticsRepo)
	auditService := services.NewAuditService(auditRepo)
	sweeper := services.NewSweeperService(wfRepo, escalationRepo, userRepo, notifier)

	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(cfg, authService)
	customerController := controllers.NewCustomerController(customerService)
	productController := controllers.NewProductController(productService)
	saleController := controllers.NewSaleController(saleService)
	approvalController := controllers.NewApprovalController(workflowService)
	escalationController := controllers.NewEscalationController(escalationService)
	auditController := controllers.NewAuditController(auditService)
	catalogController := controllers.NewCatalogController(floorService, categoryService, userService)
	analyticsController := controllers.NewAnalyticsController(analyticsService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.CustomersBase, customerController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CustomersBase, customerController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CustomerByID, customerController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CustomerByID, customerController.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.CustomerByID, customerController.DeleteHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.ProductsBase, productController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ProductsBase, productController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ProductByID, productController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ProductByID, productController.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.ProductByID, productController.DeleteHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.SalesBase, saleController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SalesBase, saleController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.SaleByID, saleController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SaleByID, saleController.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.SaleByID, saleController.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.SaleDiscount, saleController.ApplyDiscountHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.ApprovalsBase, approvalController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApprovalsBase, approvalController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApprovalByID, approvalController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApprovalByID, approvalController.ResolveHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.ApprovalResolve, approvalController.ResolveHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.EscalationsBase, escalationController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.EscalationsBase, escalationController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.EscalationByID, escalationController.AdvanceHandler).Methods(http.MethodPut)

	secured.HandleFunc(routes.AuditLogsBase, auditController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AuditLogsBase, auditController.AppendHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.FloorsBase, catalogController.ListFloorsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.FloorsBase, catalogController.CreateFloorHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.FloorsAssign, catalogController.AssignFloorHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CategoriesBase, catalogController.ListCategoriesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CategoriesBase, catalogController.CreateCategoryHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.UsersBase, catalogController.ListUsersHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UsersBase, catalogController.CreateUserHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.Analytics, analyticsController.GetHandler).Methods(http.MethodGet)

	c := cron.New()
	if _, cronErr := c.AddFunc(constants.SweepCronSpec, func() {
		if e := sweeper.RunSweep(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Approval SLA sweep failed")
		}
	}); cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule approval SLA sweep")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting crm-service on port: %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("crm-service failed to start:", err)
	}
}
