package models

// Category names
const (
	CategoryFoodDining     = "Food & Dining"
	CategoryShopping       = "Shopping"
	CategoryTransportation = "Transportation"
	CategoryGroceries      = "Groceries"
	CategoryEntertainment  = "Entertainment"
	CategoryUtilities      = "Utilities"
	CategoryHealthcare     = "Healthcare"
	CategoryEducation      = "Education"
	CategoryTravel         = "Travel"
	CategoryBills          = "Bills & Recharges"
	CategoryIncome         = "Income"
	CategoryInvestment     = "Investment"
	CategoryOther          = "Other"
)

// Memory metadata keys
const (
	MetadataCategory = "category"
	MetadataAmount   = "amount"
	MetadataType     = "type"
	MetadataDate     = "date"
	MetadataMerchant = "merchant"
)

// File permissions
const (
	PermissionDataFile  = 0600
	PermissionDirectory = 0750
	PermissionExport    = 0644
)
