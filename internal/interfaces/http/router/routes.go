package router

import (
	"github.com/gin-gonic/gin"

	"github.com/lats/backend/internal/domain/identity"
	"github.com/lats/backend/internal/interfaces/http/handler"
	"github.com/lats/backend/internal/interfaces/http/middleware"
)

// Handlers are the API handlers mounted by RegisterAPI
type Handlers struct {
	Auth      *handler.AuthHandler
	Customer  *handler.CustomerHandler
	Inventory *handler.InventoryHandler
	Sales     *handler.SalesHandler
	Closing   *handler.ClosingHandler
	Repair    *handler.RepairHandler
	WhatsApp  *handler.WhatsAppHandler
	Template  *handler.TemplateHandler
	Webhook   *handler.WebhookHandler
	Backup    *handler.BackupHandler
	System    *handler.SystemHandler
}

// RegisterAPI adds every domain group to r. requireAuth runs in front of
// all groups except login, token refresh, the system probes and the
// provider webhook.
func RegisterAPI(r *Router, h Handlers, requireAuth gin.HandlerFunc) {
	perm := middleware.RequirePermission
	anyPerm := middleware.RequireAnyPermission

	// Public auth endpoints
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	session := auth.Group("session", "")
	session.Use(requireAuth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.GetCurrentUser)

	customers := NewDomainGroup("customers", "/customers").Use(requireAuth)
	customers.GET("", anyPerm(identity.PermCustomersManage, identity.PermSalesRead), h.Customer.List)
	customers.GET("/:id", anyPerm(identity.PermCustomersManage, identity.PermSalesRead), h.Customer.GetByID)
	customers.POST("", perm(identity.PermCustomersManage), h.Customer.Create)

	inventory := NewDomainGroup("inventory", "/inventory").Use(requireAuth)
	inventory.GET("/products", h.Inventory.ListProducts)
	inventory.GET("/products/:id", h.Inventory.GetProduct)
	inventory.GET("/products/:id/movements", perm(identity.PermInventoryManage), h.Inventory.ProductMovements)
	inventory.POST("/products", perm(identity.PermInventoryManage), h.Inventory.CreateProduct)
	inventory.POST("/products/:id/adjust", perm(identity.PermInventoryManage), h.Inventory.AdjustProduct)
	inventory.GET("/spare-parts", h.Inventory.ListSpareParts)
	inventory.GET("/spare-parts/low-stock", h.Inventory.LowStockSpareParts)
	inventory.GET("/spare-parts/:id", h.Inventory.GetSparePart)
	inventory.GET("/spare-parts/:id/movements", perm(identity.PermInventoryManage), h.Inventory.SparePartMovements)
	inventory.POST("/spare-parts", perm(identity.PermInventoryManage), h.Inventory.CreateSparePart)
	inventory.POST("/spare-parts/:id/adjust", anyPerm(identity.PermInventoryManage, identity.PermRepairsManage), h.Inventory.AdjustSparePart)

	sales := NewDomainGroup("sales", "/sales").Use(requireAuth)
	sales.POST("", perm(identity.PermSalesCreate), h.Sales.Create)
	sales.GET("", perm(identity.PermSalesRead), h.Sales.List)
	sales.GET("/number/:number", perm(identity.PermSalesRead), h.Sales.GetByNumber)
	sales.GET("/:id", perm(identity.PermSalesRead), h.Sales.GetByID)
	sales.GET("/:id/receipt", perm(identity.PermSalesRead), h.Sales.Receipt)
	sales.GET("/:id/receipt.pdf", perm(identity.PermSalesRead), h.Sales.ReceiptPDF)
	sales.POST("/:id/refund", perm(identity.PermDailyClose), h.Sales.Refund)

	// Everyone who sells can see whether the day is closed; closing it
	// needs the daily-close permission and the passcode.
	closing := NewDomainGroup("closing", "/closing").Use(requireAuth)
	closing.GET("/status", perm(identity.PermSalesRead), h.Closing.Status)
	closing.GET("/summary", perm(identity.PermDailyClose), h.Closing.Summary)
	closing.POST("/close", perm(identity.PermDailyClose), h.Closing.Close)
	closing.GET("/passcode", perm(identity.PermDailyClose), h.Closing.PasscodeStatus)
	closing.PUT("/passcode", perm(identity.PermDailyClose), h.Closing.SetPasscode)
	closing.GET("/history", perm(identity.PermDailyClose), h.Closing.History)
	closing.GET("/export", perm(identity.PermDailyClose), h.Closing.Export)

	repairs := NewDomainGroup("repairs", "/repairs").Use(requireAuth, perm(identity.PermRepairsManage))
	parts := repairs.Group("parts", "/parts")
	parts.POST("", h.Repair.Create)
	parts.POST("/bulk", h.Repair.BulkCreate)
	parts.GET("/requested", h.Repair.Requested)
	parts.GET("/status/:status", h.Repair.ListByStatus)
	parts.GET("/:id", h.Repair.GetByID)
	parts.PUT("/:id", h.Repair.Update)
	parts.PATCH("/:id/status", h.Repair.ChangeStatus)
	parts.POST("/:id/use", h.Repair.Use)
	parts.DELETE("/:id", h.Repair.Delete)
	devices := repairs.Group("devices", "/devices")
	devices.GET("/:deviceId/parts", h.Repair.ListByDevice)
	devices.GET("/:deviceId/stats", h.Repair.Stats)

	whatsapp := NewDomainGroup("whatsapp", "/whatsapp").Use(requireAuth)
	instances := whatsapp.Group("instances", "/instances").Use(perm(identity.PermWhatsAppManage))
	instances.POST("", h.WhatsApp.CreateInstance)
	instances.GET("", h.WhatsApp.ListInstances)
	instances.GET("/:id", h.WhatsApp.GetInstance)
	instances.POST("/:id/state", h.WhatsApp.RefreshState)
	instances.POST("/:id/default", h.WhatsApp.SetDefault)
	instances.GET("/:id/qr", h.WhatsApp.QR)
	instances.DELETE("/:id", h.WhatsApp.DeleteInstance)

	messages := whatsapp.Group("messages", "/messages").Use(perm(identity.PermWhatsAppSend))
	messages.POST("", h.WhatsApp.Send)
	messages.GET("", h.WhatsApp.ListMessages)
	messages.GET("/recent", h.WhatsApp.Recent)
	messages.GET("/stats", h.WhatsApp.Stats)
	messages.GET("/:id", h.WhatsApp.GetMessage)

	chats := whatsapp.Group("chats", "/chats").Use(perm(identity.PermWhatsAppSend))
	chats.GET("/:chatId", h.WhatsApp.GetChat)
	chats.POST("/:chatId/read", h.WhatsApp.MarkRead)

	whatsapp.POST("/queue/process", perm(identity.PermWhatsAppManage), h.WhatsApp.ProcessQueue)

	templates := whatsapp.Group("templates", "/templates")
	templates.GET("", perm(identity.PermWhatsAppSend), h.Template.ListTemplates)
	templates.GET("/:id", perm(identity.PermWhatsAppSend), h.Template.GetTemplate)
	templates.POST("/:id/render", perm(identity.PermWhatsAppSend), h.Template.RenderTemplate)
	templates.POST("", perm(identity.PermWhatsAppManage), h.Template.CreateTemplate)
	templates.PUT("/:id", perm(identity.PermWhatsAppManage), h.Template.UpdateTemplate)
	templates.DELETE("/:id", perm(identity.PermWhatsAppManage), h.Template.DeleteTemplate)

	campaigns := whatsapp.Group("campaigns", "/campaigns").Use(perm(identity.PermWhatsAppManage))
	campaigns.POST("", h.Template.CreateCampaign)
	campaigns.GET("", h.Template.ListCampaigns)
	campaigns.GET("/:id", h.Template.GetCampaign)
	campaigns.POST("/:id/start", h.Template.StartCampaign)
	campaigns.POST("/:id/pause", h.Template.PauseCampaign)

	// Green API calls back without a bearer token
	webhooks := NewDomainGroup("webhooks", "/webhooks")
	webhooks.POST("/whatsapp/:instanceId", h.Webhook.Receive)

	backups := NewDomainGroup("backups", "/backups").Use(requireAuth, perm(identity.PermBackupManage))
	backups.GET("", h.Backup.List)
	backups.POST("", h.Backup.Create)
	backups.GET("/status", h.Backup.Status)
	backups.GET("/statistics", h.Backup.Statistics)
	backups.POST("/test-connection", h.Backup.TestConnection)
	backups.POST("/restore", h.Backup.Restore)
	backups.POST("/cleanup", h.Backup.Cleanup)
	backups.GET("/settings", h.Backup.GetSettings)
	backups.PUT("/settings", h.Backup.UpdateSettings)
	backups.GET("/:id/download", h.Backup.Download)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	r.Register(auth).
		Register(customers).
		Register(inventory).
		Register(sales).
		Register(closing).
		Register(repairs).
		Register(whatsapp).
		Register(webhooks).
		Register(backups).
		Register(system)
}
