package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	backupapp "github.com/lats/backend/internal/application/backup"
	closingapp "github.com/lats/backend/internal/application/closing"
	customerapp "github.com/lats/backend/internal/application/customer"
	identityapp "github.com/lats/backend/internal/application/identity"
	inventoryapp "github.com/lats/backend/internal/application/inventory"
	repairapp "github.com/lats/backend/internal/application/repair"
	salesapp "github.com/lats/backend/internal/application/sales"
	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/domain/identity"
	"github.com/lats/backend/internal/infrastructure/auth"
	"github.com/lats/backend/internal/infrastructure/cache"
	"github.com/lats/backend/internal/infrastructure/event"
	"github.com/lats/backend/internal/infrastructure/greenapi"
	"github.com/lats/backend/internal/infrastructure/persistence"
	"github.com/lats/backend/internal/infrastructure/printing"
	"github.com/lats/backend/internal/infrastructure/storage"
	"github.com/lats/backend/internal/interfaces/http/handler"
	"github.com/lats/backend/internal/interfaces/http/middleware"
	"github.com/lats/backend/internal/interfaces/http/router"
	"github.com/lats/backend/tests/testutil"
)

const webhookToken = "hook-secret"

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// testApp is the HTTP API wired the way the server wires it, with
// in-memory caches, a synchronous event bus and backups on local disk.
type testApp struct {
	DB      *TestDB
	Engine  *gin.Engine
	Client  *testutil.Client
	JWT     *auth.JWTService
	Queue   *whatsappapp.QueueProcessor
	Backups *backupapp.BackupService
}

func newTestApp(t *testing.T, tdb *TestDB) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
	db := &persistence.Database{DB: tdb.DB}
	stores := cache.NewInMemoryStores()
	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	sparePartRepo := persistence.NewGormSparePartRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	closureRepo := persistence.NewGormClosureRepository(db.DB)
	passcodeRepo := persistence.NewGormPasscodeRepository(db.DB)
	instanceRepo := persistence.NewGormInstanceRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	queueRepo := persistence.NewGormQueueRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)

	jwtService := auth.NewJWTService(testutil.TestJWTConfig())
	blacklist := auth.NewInMemoryTokenBlacklist()
	eventBus := event.NewInMemoryEventBus(log)

	customerService := customerapp.NewCustomerService(customerRepo, log)
	customerService.SetEventPublisher(eventBus)
	inventoryService := inventoryapp.NewInventoryService(productRepo, sparePartRepo, movementRepo, log)

	saleService := salesapp.NewSaleService(saleRepo, receiptRepo, productRepo, customerRepo, closureRepo,
		salesapp.Options{Location: time.UTC, TaxRate: decimal.Zero}, log)
	saleService.SetEventPublisher(eventBus)
	receipts, err := printing.NewReceiptRenderer(printing.Shop{Name: "LATS Kariakoo"}, "TZS", time.UTC, nil)
	require.NoError(t, err)
	saleService.SetReceiptRenderer(receipts)

	closingService := closingapp.NewClosingService(saleRepo, closureRepo, passcodeRepo, stores.Attempts,
		closingapp.Options{Location: time.UTC, MaxAttempts: 5, Lockout: 15 * time.Minute}, log)
	closingService.SetEventPublisher(eventBus)

	repairService := repairapp.NewRepairService(persistence.NewGormRepairPartRepository(db.DB), sparePartRepo, log)
	repairService.SetEventPublisher(eventBus)

	provider := greenapi.NewClient(5*time.Second, greenapi.WithLogger(log))
	instanceService := whatsappapp.NewInstanceService(instanceRepo, provider, "", log)
	templateService := whatsappapp.NewTemplateService(templateRepo, log)
	chatViews := whatsappapp.NewChatViews(stores.ChatCache)
	messageService := whatsappapp.NewMessageService(messageRepo, queueRepo, chatViews, instanceService, templateService,
		whatsappapp.MessageOptions{CountryCode: "255", PollLookback: time.Hour, ChatCacheTTL: time.Minute, HistoryLimit: 50}, log)
	queueProcessor := whatsappapp.NewQueueProcessor(queueRepo, messageRepo, instanceRepo, campaignRepo, provider, chatViews,
		whatsappapp.QueueOptions{BatchSize: 10}, log)
	queueProcessor.SetEventPublisher(eventBus)
	campaignService := whatsappapp.NewCampaignService(campaignRepo, templateRepo, messageRepo, queueRepo, instanceService, "255", log)
	campaignService.SetEventPublisher(eventBus)
	webhookService := whatsappapp.NewWebhookService(persistence.NewGormWebhookEventRepository(db.DB), instanceRepo, messageRepo, chatViews, log)
	webhookService.SetIdempotencyStore(stores.Idempotency)
	webhookService.SetSharedToken(webhookToken)

	backupService := backupapp.NewBackupService(
		persistence.NewGormBackupRecordRepository(db.DB),
		persistence.NewGormBackupSettingsRepository(db.DB),
		persistence.NewGormDumper(db.DB),
		local, nil,
		backupapp.Options{StaleAfter: 48 * time.Hour, Location: time.UTC}, log)

	saleStock := inventoryapp.NewSaleStockHandler(productRepo, log)
	eventBus.Subscribe(saleStock, saleStock.EventTypes()...)
	receiptHandler := salesapp.NewReceiptHandler(saleRepo, receiptRepo, log)
	eventBus.Subscribe(receiptHandler, receiptHandler.EventTypes()...)
	purchaseStats := customerapp.NewPurchaseStatsHandler(customerRepo, log)
	eventBus.Subscribe(purchaseStats, purchaseStats.EventTypes()...)
	require.NoError(t, eventBus.Start(context.Background()))
	t.Cleanup(func() { _ = eventBus.Stop(context.Background()) })

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.BodyLimit(1<<20, "/api/v1/backups/restore"))
	systemHandler := handler.NewSystemHandler("test", db, handler.Probe{Name: "backup_storage", Ping: local.Ping})
	engine.GET("/health", systemHandler.Health)

	requireAuth := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		Auth:      handler.NewAuthHandler(identityapp.NewAuthService(userRepo, jwtService, blacklist, log)),
		Customer:  handler.NewCustomerHandler(customerService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Sales:     handler.NewSalesHandler(saleService),
		Closing:   handler.NewClosingHandler(closingService),
		Repair:    handler.NewRepairHandler(repairService),
		WhatsApp:  handler.NewWhatsAppHandler(instanceService, messageService, queueProcessor),
		Template:  handler.NewTemplateHandler(templateService, campaignService),
		Webhook:   handler.NewWebhookHandler(webhookService),
		Backup:    handler.NewBackupHandler(backupService),
		System:    systemHandler,
	}, requireAuth)
	r.Setup()

	return &testApp{
		DB:      tdb,
		Engine:  engine,
		Client:  &testutil.Client{Handler: engine},
		JWT:     jwtService,
		Queue:   queueProcessor,
		Backups: backupService,
	}
}

// seedStaff stores a user and logs in through the API, returning a client
// that carries the access token.
func (a *testApp) seedStaff(t *testing.T, shopID uuid.UUID, username string, role identity.Role) *testutil.Client {
	t.Helper()

	users := identityapp.NewUserService(persistence.NewGormUserRepository(a.DB.DB), zap.NewNop())
	_, err := users.Create(context.Background(), identityapp.CreateUserInput{
		TenantID: shopID,
		Username: username,
		Password: "secret-pass1",
		Role:     role.String(),
	})
	require.NoError(t, err)

	w := a.Client.Do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "secret-pass1",
	})
	login := testutil.DataAs[handler.LoginResponse](t, w, http.StatusOK)
	require.Equal(t, shopID, login.User.TenantID)
	return a.Client.WithToken(login.Token.AccessToken)
}

// fakeGreenAPI answers the Green API calls the server makes and counts
// sendMessage requests.
type fakeGreenAPI struct {
	*httptest.Server
	sends atomic.Int32
}

func newFakeGreenAPI(t *testing.T) *fakeGreenAPI {
	t.Helper()

	f := &fakeGreenAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/getStateInstance/"):
			_, _ = w.Write([]byte(`{"stateInstance":"authorized"}`))
		case strings.Contains(r.URL.Path, "/sendMessage/"):
			n := f.sends.Add(1)
			_, _ = w.Write([]byte(`{"idMessage":"BAE5-` + strconv.Itoa(int(n)) + `"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}
