package dashboard

import (
	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

func statuses[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Vendor orders move through the kitchen, one tab per stage. Orders placed
// without a status land in "new".
func vendorOrderTabs() listing.TabSet {
	return listing.NewTabSet("new",
		listing.TabDefinition{Id: "new", Label: "New", Statuses: statuses(models.OrderStatusNew)},
		listing.TabDefinition{Id: "preparing", Label: "Preparing", Statuses: statuses(models.OrderStatusAccepted, models.OrderStatusPreparing)},
		listing.TabDefinition{Id: "ready", Label: "Ready", Statuses: statuses(models.OrderStatusReady, models.OrderStatusOutForDelivery)},
		listing.TabDefinition{Id: "completed", Label: "Completed", Statuses: statuses(models.OrderStatusDelivered)},
		listing.TabDefinition{Id: "cancelled", Label: "Cancelled", Statuses: statuses(models.OrderStatusCancelled)},
	)
}

var orderColumns = []Column{
	{Field: models.FieldCategory, Title: "Category"},
	{Field: models.FieldStatus, Title: "Status"},
	{Field: models.FieldTotal, Title: "Total"},
	{Field: models.FieldPriority, Title: "Priority"},
	{Field: models.FieldPlacedAt, Title: "Placed At"},
}

func vendorOrders() ScreenSpec[*models.Order] {
	return ScreenSpec[*models.Order]{
		Role:        RoleVendor,
		Name:        "orders",
		Title:       "Orders",
		Fixture:     models.FixtureVendorOrders,
		Load:        models.LoadFixture[models.Order],
		Labels:      listing.LabelChain{models.FieldHotelName, models.FieldVendorName, models.FieldFranchiseName, models.FieldSource},
		Tabs:        vendorOrderTabs(),
		AmountField: models.FieldTotal,
		Columns:     orderColumns,
		Toggles:     []string{models.FieldPriority},
	}
}

// Admin order tabs overlap: "all" counts every order.
func adminOrders() ScreenSpec[*models.Order] {
	return ScreenSpec[*models.Order]{
		Role:    RoleAdmin,
		Name:    "orders",
		Title:   "All Orders",
		Fixture: models.FixtureAdminOrders,
		Load:    models.LoadFixture[models.Order],
		Labels:  listing.LabelChain{models.FieldHotelName, models.FieldVendorName, models.FieldFranchiseName, models.FieldSource},
		Tabs: listing.NewTabSet("all",
			listing.TabDefinition{Id: "all", Label: "All", Match: listing.AnyStatus},
			listing.TabDefinition{Id: "active", Label: "Active", Statuses: statuses(
				models.OrderStatusNew, models.OrderStatusAccepted, models.OrderStatusPreparing,
				models.OrderStatusReady, models.OrderStatusOutForDelivery,
			)},
			listing.TabDefinition{Id: "completed", Label: "Completed", Statuses: statuses(models.OrderStatusDelivered)},
			listing.TabDefinition{Id: "cancelled", Label: "Cancelled", Statuses: statuses(models.OrderStatusCancelled)},
		),
		AmountField: models.FieldTotal,
		Columns: append([]Column{
			{Field: models.FieldVendorName, Title: "Vendor"},
			{Field: models.FieldFranchiseName, Title: "Franchise"},
		}, orderColumns...),
		Toggles: []string{models.FieldPriority},
	}
}

func vendorInventory() ScreenSpec[*models.InventoryItem] {
	return ScreenSpec[*models.InventoryItem]{
		Role:    RoleVendor,
		Name:    "inventory",
		Title:   "Inventory",
		Fixture: models.FixtureInventory,
		Load:    models.LoadFixture[models.InventoryItem],
		Labels:  listing.LabelChain{models.FieldName, models.FieldSku},
		Tabs: listing.NewTabSet("all",
			listing.TabDefinition{Id: "all", Label: "All", Match: listing.AnyStatus},
			listing.TabDefinition{Id: "available", Label: "Available", Statuses: []string{models.InventoryStatusAvailable}},
			listing.TabDefinition{Id: "unavailable", Label: "Unavailable", Statuses: []string{models.InventoryStatusUnavailable}},
		),
		AmountField: models.FieldTotal,
		Columns: []Column{
			{Field: models.FieldSku, Title: "SKU"},
			{Field: models.FieldCategory, Title: "Category"},
			{Field: models.FieldPrice, Title: "Price"},
			{Field: models.FieldStock, Title: "Stock"},
			{Field: models.FieldAvailable, Title: "Available"},
		},
		Toggles: []string{models.FieldAvailable},
	}
}

func purchaseOrderTabs() listing.TabSet {
	return listing.NewTabSet("draft",
		listing.TabDefinition{Id: "draft", Label: "Draft", Statuses: statuses(models.PurchaseOrderStatusDraft)},
		listing.TabDefinition{Id: "pending", Label: "Pending", Statuses: statuses(models.PurchaseOrderStatusSubmitted, models.PurchaseOrderStatusApproved)},
		listing.TabDefinition{Id: "received", Label: "Received", Statuses: statuses(models.PurchaseOrderStatusReceived)},
		listing.TabDefinition{Id: "cancelled", Label: "Cancelled", Statuses: statuses(models.PurchaseOrderStatusCancelled)},
	)
}

var purchaseOrderColumns = []Column{
	{Field: models.FieldVendorName, Title: "Vendor"},
	{Field: models.FieldCategory, Title: "Category"},
	{Field: models.FieldStatus, Title: "Status"},
	{Field: models.FieldTotal, Title: "Total"},
	{Field: models.FieldUrgent, Title: "Urgent"},
}

func vendorPurchaseOrders() ScreenSpec[*models.PurchaseOrder] {
	return ScreenSpec[*models.PurchaseOrder]{
		Role:        RoleVendor,
		Name:        "purchase-orders",
		Title:       "Purchase Orders",
		Fixture:     models.FixturePurchaseOrders,
		Load:        models.LoadFixture[models.PurchaseOrder],
		Labels:      listing.LabelChain{models.FieldFranchiseName, models.FieldVendorName},
		Tabs:        purchaseOrderTabs(),
		AmountField: models.FieldTotal,
		Columns:     purchaseOrderColumns,
		Toggles:     []string{models.FieldUrgent},
	}
}

func adminPurchaseOrders() ScreenSpec[*models.PurchaseOrder] {
	spec := vendorPurchaseOrders()
	spec.Role = RoleAdmin
	spec.Title = "Franchise Purchase Orders"
	return spec
}

func ledgerTabs() listing.TabSet {
	return listing.NewTabSet("pending",
		listing.TabDefinition{Id: "pending", Label: "Pending", Statuses: []string{models.LedgerStatusPending}},
		listing.TabDefinition{Id: "reconciled", Label: "Reconciled", Statuses: []string{models.LedgerStatusReconciled}},
	)
}

var ledgerColumns = []Column{
	{Field: models.FieldCategory, Title: "Category"},
	{Field: models.FieldDirection, Title: "Direction"},
	{Field: models.FieldAmount, Title: "Amount"},
	{Field: models.FieldReconciled, Title: "Reconciled"},
	{Field: models.FieldPostedAt, Title: "Posted At"},
}

func vendorLedger() ScreenSpec[*models.LedgerEntry] {
	return ScreenSpec[*models.LedgerEntry]{
		Role:        RoleVendor,
		Name:        "ledger",
		Title:       "Ledger",
		Fixture:     models.FixtureVendorLedger,
		Load:        models.LoadFixture[models.LedgerEntry],
		Labels:      listing.LabelChain{models.FieldSource, models.FieldCategory},
		Tabs:        ledgerTabs(),
		AmountField: models.FieldSignedAmount,
		Columns:     ledgerColumns,
		Toggles:     []string{models.FieldReconciled},
	}
}

func adminLedger() ScreenSpec[*models.LedgerEntry] {
	spec := vendorLedger()
	spec.Role = RoleAdmin
	spec.Title = "Platform Ledger"
	spec.Fixture = models.FixtureAdminLedger
	return spec
}

func deliveryJobs() ScreenSpec[*models.DeliveryJob] {
	return ScreenSpec[*models.DeliveryJob]{
		Role:          RoleDelivery,
		Name:          "jobs",
		Title:         "Jobs",
		Fixture:       models.FixtureDeliveryJobs,
		Load:          models.LoadFixture[models.DeliveryJob],
		Labels:        listing.LabelChain{models.FieldVendorName, models.FieldHotelName, models.FieldZone},
		CategoryField: models.FieldZone,
		Tabs: listing.NewTabSet("offered",
			listing.TabDefinition{Id: "offered", Label: "Offered", Statuses: statuses(models.JobStatusOffered)},
			listing.TabDefinition{Id: "active", Label: "Active", Statuses: statuses(models.JobStatusAccepted, models.JobStatusPickedUp)},
			listing.TabDefinition{Id: "completed", Label: "Completed", Statuses: statuses(models.JobStatusDelivered)},
			listing.TabDefinition{Id: "declined", Label: "Declined", Statuses: statuses(models.JobStatusDeclined)},
		),
		AmountField: models.FieldTotal,
		Columns: []Column{
			{Field: models.FieldZone, Title: "Zone"},
			{Field: models.FieldDropoffAddress, Title: "Drop-off"},
			{Field: models.FieldContactPhone, Title: "Phone"},
			{Field: models.FieldStatus, Title: "Status"},
			{Field: models.FieldFee, Title: "Fee"},
			{Field: models.FieldTip, Title: "Tip"},
			{Field: models.FieldPinned, Title: "Pinned"},
		},
		Toggles: []string{models.FieldPinned},
	}
}

func deliveryEarnings() ScreenSpec[*models.LedgerEntry] {
	return ScreenSpec[*models.LedgerEntry]{
		Role:        RoleDelivery,
		Name:        "earnings",
		Title:       "Earnings",
		Fixture:     models.FixtureEarnings,
		Load:        models.LoadFixture[models.LedgerEntry],
		Labels:      listing.LabelChain{models.FieldSource},
		Tabs:        ledgerTabs(),
		AmountField: models.FieldAmount,
		Columns:     ledgerColumns,
		Toggles:     []string{models.FieldReconciled},
	}
}
