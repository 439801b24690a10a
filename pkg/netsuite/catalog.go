package netsuite

// catalog lists every supported stream. Streams sharing the Transaction
// container with watermark and paging use txn; the rest are spelled out.
var catalog = []EntityDescriptor{
	// master data searched directly
	{Stream: "Customer", RemoteType: "Customer", Strategy: StrategyDirect, RequiresWatermark: true},
	{Stream: "Accounts", RemoteType: "Account", Strategy: StrategyDirect},
	{Stream: "Classifications", RemoteType: "Classification", Strategy: StrategyDirect},
	{Stream: "Vendors", RemoteType: "Vendor", Strategy: StrategyDirect},
	{Stream: "PriceLevel", RemoteType: "PriceLevel", Strategy: StrategyDirect},
	{Stream: "Items", RemoteType: "Item", Strategy: StrategyDirect, RequiresWatermark: true},

	// transaction and item sub-kinds with their own flags
	{Stream: "JournalEntry", RemoteType: "JournalEntry", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, Writable: true},
	{Stream: "Commission", RemoteType: "JournalEntry", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, Writable: true},
	{Stream: "VendorBills", RemoteType: "VendorBill", Strategy: StrategyContained, Container: ContainerTransaction},
	{Stream: "VendorPayment", RemoteType: "VendorPayment", Strategy: StrategyContained, Container: ContainerTransaction},
	{Stream: "InventoryAdjustment", RemoteType: "InventoryAdjustment", Strategy: StrategyContained, Container: ContainerTransaction},
	{Stream: "InventoryTransfer", RemoteType: "InventoryTransfer", Strategy: StrategyContained, Container: ContainerTransaction},
	{Stream: "InventoryItem", RemoteType: "InventoryItem", Strategy: StrategyContained, Container: ContainerItem, RequiresWatermark: true},
	{Stream: "SalesOrders", RemoteType: "SalesOrder", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true},
	{Stream: "CreditMemos", RemoteType: "CreditMemo", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, RequiresPaging: true},
	{Stream: "VendorBill", RemoteType: "VendorBill", Strategy: StrategyContained, Container: ContainerTransaction},

	// transaction sub-kinds, watermarked and paged
	txn("Invoice"),
	txn("PurchaseOrder"),
	txn("NonInventorySaleItem"),
	txn("SupportCaseStatus"),
	txn("LeadSource"),
	txn("CurrencyRate"),
	txn("WinLossReason"),
	txn("SupportCaseOrigin"),
	txn("Deposit"),
	txn("TaxGroup"),
	txn("TransactionColumnCustomField"),
	txn("ItemNumberCustomField"),
	txn("StatisticalJournalEntry"),
	txn("InventoryDetail"),
	txn("CampaignSearchEngine"),
	txn("GlobalAccountMapping"),
	txn("FairValuePrice"),
	txn("SupportCaseType"),
	txn("Solution"),
	txn("RevRecTemplate"),
	txn("TimeBill"),
	txn("Charge"),
	txn("InterCompanyTransferOrder"),
	txn("ItemRevision"),
	txn("Contact"),
	txn("CampaignResponse"),
	txn("PromotionCode"),
	txn("WorkOrderClose"),
	txn("PurchaseRequisition"),
	txn("JobType"),
	txn("Term"),
	txn("Issue"),
	txn("ManufacturingRouting"),
	txn("ServiceSaleItem"),
	txn("InventoryCostRevaluation"),
	txn("UnitsType"),
	txn("EntityGroup"),
	txn("DepositApplication"),
	txn("SalesTaxItem"),
	txn("CustomTransaction"),
	txn("LandedCost"),
	txn("Task"),
	txn("TimeSheet"),
	txn("GiftCertificate"),
	txn("KitItem"),
	txn("DescriptionItem"),
	txn("ItemFulfillment"),
	txn("ContactCategory"),
	txn("CustomerMessage"),
	txn("OtherChargeResaleItem"),
	txn("NoteType"),
	txn("VendorReturnAuthorization"),
	txn("Job"),
	txn("CampaignSubscription"),
	txn("CampaignFamily"),
	txn("CrmCustomField"),
	txn("BinWorksheet"),
	txn("SerializedInventoryItem"),
	txn("DiscountItem"),
	txn("CustomerRefund"),
	txn("TransferOrder"),
	txn("PartnerCategory"),
	txn("OtherChargePurchaseItem"),
	txn("BinTransfer"),
	txn("PaymentMethod"),
	txn("ItemAccountMapping"),
	txn("CustomerStatus"),
	txn("Estimate"),
	txn("SalesRole"),
	txn("ManufacturingCostTemplate"),
	txn("AssemblyUnbuild"),
	txn("ItemSupplyPlan"),
	txn("NonInventoryResaleItem"),
	txn("BillingSchedule"),
	txn("PaymentItem"),
	txn("ItemGroup"),
	txn("WorkOrder"),
	txn("WorkOrderIssue"),
	txn("SupportCaseIssue"),
	txn("ContactRole"),
	txn("CustomerPayment"),
	txn("PricingGroup"),
	txn("SupportCasePriority"),
	txn("Campaign"),
	txn("LotNumberedAssemblyItem"),
	txn("InventoryNumber"),
	txn("VendorCredit"),
	txn("CustomRecordCustomField"),
	txn("CustomerDeposit"),
	txn("SupportCase"),
	txn("ServicePurchaseItem"),
	txn("CampaignOffer"),
	txn("CampaignAudience"),
	txn("ServiceResaleItem"),
	txn("CustomerCategory"),
	txn("RevRecSchedule"),
	txn("CashSale"),
	txn("CalendarEvent"),
	txn("CampaignVertical"),
	txn("OtherCustomField"),
	txn("EntityCustomField"),
	txn("PayrollItem"),
	txn("SerializedAssemblyItem"),
	txn("OtherNameCategory"),
	txn("ReturnAuthorization"),
	txn("Nexus"),
	txn("TransactionBodyCustomField"),
	txn("WorkOrderCompletion"),
	txn("BudgetCategory"),
	txn("SiteCategory"),
	txn("DownloadItem"),
	txn("CustomRecordType"),
	txn("ItemOptionCustomField"),
	txn("CashRefund"),
	txn("ResourceAllocation"),
	txn("ItemReceipt"),
	txn("ManufacturingOperationTask"),
	txn("PhoneCall"),
	txn("BillingAccount"),
	txn("NonInventoryPurchaseItem"),
	txn("MarkupItem"),
	txn("ProjectTask"),
	txn("PaycheckJournal"),
	txn("Partner"),
	txn("AssemblyItem"),
	txn("GiftCertificateItem"),
	txn("JobStatus"),
	txn("InterCompanyJournalEntry"),
	txn("Budget"),
	txn("OtherChargeSaleItem"),
	txn("Note"),
	txn("AssemblyBuild"),
	txn("Bin"),
	txn("CampaignCategory"),
	txn("TimeEntry"),
	txn("Check"),
	txn("ItemCustomField"),
	txn("Message"),
}

func txn(remoteType string) EntityDescriptor {
	return EntityDescriptor{
		Stream:            remoteType,
		RemoteType:        remoteType,
		Strategy:          StrategyContained,
		Container:         ContainerTransaction,
		RequiresWatermark: true,
		RequiresPaging:    true,
	}
}

// Catalog returns a copy of the static descriptor table.
func Catalog() []EntityDescriptor {
	return append([]EntityDescriptor(nil), catalog...)
}
