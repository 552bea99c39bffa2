package store

import "fjacquet/upi-ledger/internal/models"

// DefaultCategories is the built-in category table, in scoring order.
func DefaultCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{Name: models.CategoryFoodDining, Keywords: []string{
			"swiggy", "zomato", "uber eats", "food", "restaurant", "cafe", "pizza",
			"burger", "delivery", "instamart", "dining", "eat", "meal",
		}},
		{Name: models.CategoryShopping, Keywords: []string{
			"amazon", "flipkart", "myntra", "nykaa", "shopping", "purchase", "buy",
			"store", "mall", "fashion", "clothing",
		}},
		{Name: models.CategoryTransportation, Keywords: []string{
			"uber", "ola", "rapido", "taxi", "cab", "metro", "bus", "train",
			"fuel", "petrol", "diesel", "parking", "toll",
		}},
		{Name: models.CategoryGroceries, Keywords: []string{
			"bigbasket", "grofers", "dunzo", "grocery", "supermarket", "dmart",
			"reliance", "fresh", "vegetable", "fruit",
		}},
		{Name: models.CategoryEntertainment, Keywords: []string{
			"netflix", "prime", "spotify", "youtube", "movie", "cinema", "theater",
			"game", "gaming", "subscription",
		}},
		{Name: models.CategoryUtilities, Keywords: []string{
			"electricity", "water", "gas", "internet", "broadband", "wifi",
			"utility", "power", "bill",
		}},
		{Name: models.CategoryHealthcare, Keywords: []string{
			"hospital", "clinic", "pharmacy", "medical", "doctor", "medicine",
			"apollo", "fortis", "health",
		}},
		{Name: models.CategoryEducation, Keywords: []string{
			"school", "college", "university", "tuition", "course", "education",
			"book", "stationery",
		}},
		{Name: models.CategoryTravel, Keywords: []string{
			"hotel", "flight", "airline", "booking", "travel", "trip", "vacation",
			"make my trip", "goibibo", "oyo",
		}},
		{Name: models.CategoryBills, Keywords: []string{
			"recharge", "prepaid", "postpaid", "mobile", "phone", "dth", "cable",
			"bill payment", "bharat bill",
		}},
		{Name: models.CategoryIncome, Keywords: []string{
			"salary", "credit", "refund", "interest", "dividend", "income",
			"deposit", "transfer received",
		}},
		{Name: models.CategoryInvestment, Keywords: []string{
			"mutual fund", "sip", "stock", "equity", "investment", "savings",
			"fd", "fixed deposit",
		}},
		{Name: models.CategoryOther},
	}
}

// DefaultMerchantMappings maps well-known merchant fragments straight to a category.
func DefaultMerchantMappings() map[string]string {
	return map[string]string{
		"swiggy":       models.CategoryFoodDining,
		"zomato":       models.CategoryFoodDining,
		"amazon":       models.CategoryShopping,
		"flipkart":     models.CategoryShopping,
		"myntra":       models.CategoryShopping,
		"nykaa":        models.CategoryShopping,
		"uber eats":    models.CategoryFoodDining,
		"uber":         models.CategoryTransportation,
		"rapido":       models.CategoryTransportation,
		"netflix":      models.CategoryEntertainment,
		"bigbasket":    models.CategoryGroceries,
		"make my trip": models.CategoryTravel,
		"goibibo":      models.CategoryTravel,
	}
}
