package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	backupapp "github.com/lats/backend/internal/application/backup"
	closingapp "github.com/lats/backend/internal/application/closing"
	customerapp "github.com/lats/backend/internal/application/customer"
	"github.com/lats/backend/internal/application/identity"
	inventoryapp "github.com/lats/backend/internal/application/inventory"
	repairapp "github.com/lats/backend/internal/application/repair"
	salesapp "github.com/lats/backend/internal/application/sales"
	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/domain/backup"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/repair"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/persistence"
)

// ret returns argument i as T, or the zero value when it was set to nil
func ret[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	return ret[*identity.LoginResult](args, 0), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.RefreshTokenResult, error) {
	args := m.Called(ctx, input)
	return ret[*identity.RefreshTokenResult](args, 0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*identity.UserInfo, error) {
	args := m.Called(ctx, userID)
	return ret[*identity.UserInfo](args, 0), args.Error(1)
}

type MockCustomerService struct{ mock.Mock }

func (m *MockCustomerService) Create(ctx context.Context, tenantID uuid.UUID, req customerapp.CreateCustomerRequest) (*customerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, req)
	return ret[*customerapp.CustomerResponse](args, 0), args.Error(1)
}

func (m *MockCustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*customerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*customerapp.CustomerResponse](args, 0), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, tenantID uuid.UUID, filter customerapp.CustomerListFilter) (*shared.Paginated[customerapp.CustomerResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return ret[*shared.Paginated[customerapp.CustomerResponse]](args, 0), args.Error(1)
}

type MockInventoryService struct{ mock.Mock }

func (m *MockInventoryService) CreateProduct(ctx context.Context, tenantID uuid.UUID, input inventoryapp.CreateProductInput) (*inventoryapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*inventoryapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*inventoryapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter inventoryapp.ListFilter) (*shared.Paginated[inventoryapp.ProductResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return ret[*shared.Paginated[inventoryapp.ProductResponse]](args, 0), args.Error(1)
}

func (m *MockInventoryService) AdjustProduct(ctx context.Context, tenantID, id uuid.UUID, input inventoryapp.AdjustStockInput) (*inventoryapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, id, input)
	return ret[*inventoryapp.ProductResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) CreateSparePart(ctx context.Context, tenantID uuid.UUID, input inventoryapp.CreateSparePartInput) (*inventoryapp.SparePartResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*inventoryapp.SparePartResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) GetSparePart(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.SparePartResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*inventoryapp.SparePartResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) ListSpareParts(ctx context.Context, tenantID uuid.UUID, filter inventoryapp.ListFilter) (*shared.Paginated[inventoryapp.SparePartResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return ret[*shared.Paginated[inventoryapp.SparePartResponse]](args, 0), args.Error(1)
}

func (m *MockInventoryService) AdjustSparePart(ctx context.Context, tenantID, id uuid.UUID, input inventoryapp.AdjustStockInput) (*inventoryapp.SparePartResponse, error) {
	args := m.Called(ctx, tenantID, id, input)
	return ret[*inventoryapp.SparePartResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) LowStockSpareParts(ctx context.Context, tenantID uuid.UUID) ([]inventoryapp.SparePartResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[[]inventoryapp.SparePartResponse](args, 0), args.Error(1)
}

func (m *MockInventoryService) Movements(ctx context.Context, tenantID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID, limit int) ([]inventoryapp.MovementResponse, error) {
	args := m.Called(ctx, tenantID, itemType, itemID, limit)
	return ret[[]inventoryapp.MovementResponse](args, 0), args.Error(1)
}

type MockSaleService struct{ mock.Mock }

func (m *MockSaleService) ProcessSale(ctx context.Context, tenantID uuid.UUID, input salesapp.ProcessSaleInput) (*salesapp.SaleResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*salesapp.SaleResponse](args, 0), args.Error(1)
}

func (m *MockSaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*salesapp.SaleResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*salesapp.SaleResponse](args, 0), args.Error(1)
}

func (m *MockSaleService) GetByNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*salesapp.SaleResponse, error) {
	args := m.Called(ctx, tenantID, saleNumber)
	return ret[*salesapp.SaleResponse](args, 0), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, tenantID uuid.UUID, filter salesapp.SaleListFilter) (*shared.Paginated[salesapp.SaleResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return ret[*shared.Paginated[salesapp.SaleResponse]](args, 0), args.Error(1)
}

func (m *MockSaleService) Refund(ctx context.Context, tenantID, id uuid.UUID, input salesapp.RefundInput) (*salesapp.SaleResponse, error) {
	args := m.Called(ctx, tenantID, id, input)
	return ret[*salesapp.SaleResponse](args, 0), args.Error(1)
}

func (m *MockSaleService) Receipt(ctx context.Context, tenantID, saleID uuid.UUID) (*salesapp.ReceiptResponse, error) {
	args := m.Called(ctx, tenantID, saleID)
	return ret[*salesapp.ReceiptResponse](args, 0), args.Error(1)
}

func (m *MockSaleService) ReceiptPDF(ctx context.Context, tenantID, saleID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, tenantID, saleID)
	return ret[[]byte](args, 0), args.String(1), args.Error(2)
}

type MockClosingService struct{ mock.Mock }

func (m *MockClosingService) Summary(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DailySummary, error) {
	args := m.Called(ctx, tenantID, date)
	return ret[*closing.DailySummary](args, 0), args.Error(1)
}

func (m *MockClosingService) Status(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DayStatus, error) {
	args := m.Called(ctx, tenantID, date)
	return ret[*closing.DayStatus](args, 0), args.Error(1)
}

func (m *MockClosingService) Close(ctx context.Context, tenantID uuid.UUID, input closingapp.CloseDayInput) (*closingapp.ClosureResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*closingapp.ClosureResponse](args, 0), args.Error(1)
}

func (m *MockClosingService) PasscodeStatus(ctx context.Context, tenantID uuid.UUID) (*closingapp.PasscodeStatusResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[*closingapp.PasscodeStatusResponse](args, 0), args.Error(1)
}

func (m *MockClosingService) SetPasscode(ctx context.Context, tenantID uuid.UUID, input closingapp.SetPasscodeInput) error {
	return m.Called(ctx, tenantID, input).Error(0)
}

func (m *MockClosingService) History(ctx context.Context, tenantID uuid.UUID, from, to string) ([]closingapp.ClosureResponse, error) {
	args := m.Called(ctx, tenantID, from, to)
	return ret[[]closingapp.ClosureResponse](args, 0), args.Error(1)
}

func (m *MockClosingService) ExportCSV(ctx context.Context, tenantID uuid.UUID, date string) ([]byte, string, error) {
	args := m.Called(ctx, tenantID, date)
	return ret[[]byte](args, 0), args.String(1), args.Error(2)
}

type MockRepairService struct{ mock.Mock }

func (m *MockRepairService) Create(ctx context.Context, tenantID uuid.UUID, input repairapp.CreateRepairPartInput) (*repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) BulkCreate(ctx context.Context, tenantID uuid.UUID, inputs []repairapp.CreateRepairPartInput) ([]repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, inputs)
	return ret[[]repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) Update(ctx context.Context, tenantID, id uuid.UUID, input repairapp.UpdateRepairPartInput) (*repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, id, input)
	return ret[*repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status repair.PartStatus) (*repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, id, status)
	return ret[*repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockRepairService) ListByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, deviceID)
	return ret[[]repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status repair.PartStatus) ([]repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, status)
	return ret[[]repairapp.RepairPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) RequestedPartNames(ctx context.Context, tenantID uuid.UUID, deviceID *uuid.UUID) ([]repairapp.RequestedPartResponse, error) {
	args := m.Called(ctx, tenantID, deviceID)
	return ret[[]repairapp.RequestedPartResponse](args, 0), args.Error(1)
}

func (m *MockRepairService) Stats(ctx context.Context, tenantID, deviceID uuid.UUID) (*repair.Stats, error) {
	args := m.Called(ctx, tenantID, deviceID)
	return ret[*repair.Stats](args, 0), args.Error(1)
}

func (m *MockRepairService) Use(ctx context.Context, tenantID, id uuid.UUID, input repairapp.UseRepairPartInput) (*repairapp.RepairPartResponse, error) {
	args := m.Called(ctx, tenantID, id, input)
	return ret[*repairapp.RepairPartResponse](args, 0), args.Error(1)
}

type MockInstanceService struct{ mock.Mock }

func (m *MockInstanceService) Create(ctx context.Context, tenantID uuid.UUID, input whatsappapp.CreateInstanceInput) (*whatsappapp.InstanceResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*whatsappapp.InstanceResponse](args, 0), args.Error(1)
}

func (m *MockInstanceService) List(ctx context.Context, tenantID uuid.UUID) ([]whatsappapp.InstanceResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[[]whatsappapp.InstanceResponse](args, 0), args.Error(1)
}

func (m *MockInstanceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.InstanceResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.InstanceResponse](args, 0), args.Error(1)
}

func (m *MockInstanceService) RefreshState(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.InstanceResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.InstanceResponse](args, 0), args.Error(1)
}

func (m *MockInstanceService) QR(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.QRCode, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsapp.QRCode](args, 0), args.Error(1)
}

func (m *MockInstanceService) SetDefault(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.InstanceResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.InstanceResponse](args, 0), args.Error(1)
}

func (m *MockInstanceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockMessageService struct{ mock.Mock }

func (m *MockMessageService) Send(ctx context.Context, tenantID uuid.UUID, input whatsappapp.SendMessageInput) (*whatsappapp.MessageResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*whatsappapp.MessageResponse](args, 0), args.Error(1)
}

func (m *MockMessageService) PollRecent(ctx context.Context, tenantID uuid.UUID) ([]whatsappapp.MessageResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[[]whatsappapp.MessageResponse](args, 0), args.Error(1)
}

func (m *MockMessageService) GetChat(ctx context.Context, tenantID uuid.UUID, chatID string) (*whatsappapp.ChatResponse, error) {
	args := m.Called(ctx, tenantID, chatID)
	return ret[*whatsappapp.ChatResponse](args, 0), args.Error(1)
}

func (m *MockMessageService) MarkRead(ctx context.Context, tenantID uuid.UUID, chatID string) (int64, error) {
	args := m.Called(ctx, tenantID, chatID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.MessageResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.MessageResponse](args, 0), args.Error(1)
}

func (m *MockMessageService) List(ctx context.Context, tenantID uuid.UUID, filter whatsappapp.MessageListFilter) ([]whatsappapp.MessageResponse, error) {
	args := m.Called(ctx, tenantID, filter)
	return ret[[]whatsappapp.MessageResponse](args, 0), args.Error(1)
}

func (m *MockMessageService) Stats(ctx context.Context, tenantID uuid.UUID) (*whatsappapp.MessageStatsResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[*whatsappapp.MessageStatsResponse](args, 0), args.Error(1)
}

type MockQueueRunner struct{ mock.Mock }

func (m *MockQueueRunner) ProcessQueue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockTemplateService struct{ mock.Mock }

func (m *MockTemplateService) Create(ctx context.Context, tenantID uuid.UUID, input whatsappapp.TemplateInput) (*whatsappapp.TemplateResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*whatsappapp.TemplateResponse](args, 0), args.Error(1)
}

func (m *MockTemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, input whatsappapp.TemplateInput) (*whatsappapp.TemplateResponse, error) {
	args := m.Called(ctx, tenantID, id, input)
	return ret[*whatsappapp.TemplateResponse](args, 0), args.Error(1)
}

func (m *MockTemplateService) Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.TemplateResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.TemplateResponse](args, 0), args.Error(1)
}

func (m *MockTemplateService) List(ctx context.Context, tenantID uuid.UUID, category string) ([]whatsappapp.TemplateResponse, error) {
	args := m.Called(ctx, tenantID, category)
	return ret[[]whatsappapp.TemplateResponse](args, 0), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockTemplateService) Render(ctx context.Context, tenantID uuid.UUID, name string, values map[string]string) (string, error) {
	args := m.Called(ctx, tenantID, name, values)
	return args.String(0), args.Error(1)
}

type MockCampaignService struct{ mock.Mock }

func (m *MockCampaignService) Create(ctx context.Context, tenantID uuid.UUID, input whatsappapp.CreateCampaignInput) (*whatsappapp.CampaignResponse, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*whatsappapp.CampaignResponse](args, 0), args.Error(1)
}

func (m *MockCampaignService) Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.CampaignResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.CampaignResponse](args, 0), args.Error(1)
}

func (m *MockCampaignService) List(ctx context.Context, tenantID uuid.UUID, filter whatsappapp.CampaignListFilter) ([]whatsappapp.CampaignResponse, error) {
	args := m.Called(ctx, tenantID, filter)
	return ret[[]whatsappapp.CampaignResponse](args, 0), args.Error(1)
}

func (m *MockCampaignService) Start(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.CampaignResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.CampaignResponse](args, 0), args.Error(1)
}

func (m *MockCampaignService) Pause(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.CampaignResponse, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[*whatsappapp.CampaignResponse](args, 0), args.Error(1)
}

type MockWebhookIngester struct{ mock.Mock }

func (m *MockWebhookIngester) Handle(ctx context.Context, instanceID, token string, raw []byte) (*whatsappapp.WebhookResult, error) {
	args := m.Called(ctx, instanceID, token, raw)
	return ret[*whatsappapp.WebhookResult](args, 0), args.Error(1)
}

type MockBackupService struct{ mock.Mock }

func (m *MockBackupService) GetSettings(ctx context.Context, tenantID uuid.UUID) (backup.Settings, error) {
	args := m.Called(ctx, tenantID)
	return ret[backup.Settings](args, 0), args.Error(1)
}

func (m *MockBackupService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, input backupapp.UpdateSettingsInput) (backup.Settings, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[backup.Settings](args, 0), args.Error(1)
}

func (m *MockBackupService) Status(ctx context.Context, tenantID uuid.UUID) (*backupapp.StatusResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[*backupapp.StatusResponse](args, 0), args.Error(1)
}

func (m *MockBackupService) List(ctx context.Context, tenantID uuid.UUID) ([]backupapp.RecordResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[[]backupapp.RecordResponse](args, 0), args.Error(1)
}

func (m *MockBackupService) Statistics(ctx context.Context, tenantID uuid.UUID) (backup.Statistics, error) {
	args := m.Called(ctx, tenantID)
	return ret[backup.Statistics](args, 0), args.Error(1)
}

func (m *MockBackupService) CreateManual(ctx context.Context, tenantID uuid.UUID) (*backupapp.RecordResponse, error) {
	args := m.Called(ctx, tenantID)
	return ret[*backupapp.RecordResponse](args, 0), args.Error(1)
}

func (m *MockBackupService) Download(ctx context.Context, tenantID, id uuid.UUID) (io.ReadCloser, int64, string, error) {
	args := m.Called(ctx, tenantID, id)
	return ret[io.ReadCloser](args, 0), args.Get(1).(int64), args.String(2), args.Error(3)
}

func (m *MockBackupService) Restore(ctx context.Context, tenantID uuid.UUID, input backupapp.RestoreInput) (*backup.RestoreResult, error) {
	args := m.Called(ctx, tenantID, input)
	return ret[*backup.RestoreResult](args, 0), args.Error(1)
}

func (m *MockBackupService) CleanOld(ctx context.Context, tenantID uuid.UUID) (*backupapp.CleanupResult, error) {
	args := m.Called(ctx, tenantID)
	return ret[*backupapp.CleanupResult](args, 0), args.Error(1)
}

func (m *MockBackupService) TestConnection(ctx context.Context) *backupapp.ConnectionResult {
	return ret[*backupapp.ConnectionResult](m.Called(ctx), 0)
}

type MockDatabaseProbe struct{ mock.Mock }

func (m *MockDatabaseProbe) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDatabaseProbe) Stats() (persistence.ConnectionStats, error) {
	args := m.Called()
	return ret[persistence.ConnectionStats](args, 0), args.Error(1)
}

var (
	_ AuthService      = (*MockAuthService)(nil)
	_ CustomerService  = (*MockCustomerService)(nil)
	_ InventoryService = (*MockInventoryService)(nil)
	_ SaleService      = (*MockSaleService)(nil)
	_ ClosingService   = (*MockClosingService)(nil)
	_ RepairService    = (*MockRepairService)(nil)
	_ InstanceService  = (*MockInstanceService)(nil)
	_ MessageService   = (*MockMessageService)(nil)
	_ QueueRunner      = (*MockQueueRunner)(nil)
	_ TemplateService  = (*MockTemplateService)(nil)
	_ CampaignService  = (*MockCampaignService)(nil)
	_ WebhookIngester  = (*MockWebhookIngester)(nil)
	_ BackupService    = (*MockBackupService)(nil)
	_ DatabaseProbe    = (*MockDatabaseProbe)(nil)
)
