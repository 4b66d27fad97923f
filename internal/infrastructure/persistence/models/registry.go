package models

// All returns every persistence model, in dependency order, for AutoMigrate
// in tests and local development. Production schemas come from migrations/.
func All() []any {
	return []any{
		&UserModel{},
		&CustomerModel{},
		&ProductModel{},
		&SparePartModel{},
		&StockMovementModel{},
		&SparePartUsageModel{},
		&SaleModel{},
		&SaleItemModel{},
		&SalePaymentModel{},
		&ReceiptModel{},
		&DailyClosureModel{},
		&ClosingSettingsModel{},
		&RepairPartModel{},
		&WhatsAppInstanceModel{},
		&WhatsAppMessageModel{},
		&WhatsAppQueueModel{},
		&WhatsAppTemplateModel{},
		&WhatsAppCampaignModel{},
		&WhatsAppCampaignRecipientModel{},
		&GreenAPIWebhookEventModel{},
		&BackupRecordModel{},
		&BackupSettingsModel{},
	}
}
