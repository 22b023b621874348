package model

// DayOrdersAmount is today's order count against yesterday.
type DayOrdersAmount struct {
	Amount         int64  `json:"amount"`
	PreviousAmount int64  `json:"previous_amount"`
	DiffPercent    string `json:"diff_percent"`
}

// MonthOrdersAmount is this month's order count against last month.
type MonthOrdersAmount struct {
	Amount         int64  `json:"amount"`
	PreviousAmount int64  `json:"previous_amount"`
	DiffPercent    string `json:"diff_percent"`
}

// MonthCanceledOrdersAmount is this month's cancelled orders against last
// month.
type MonthCanceledOrdersAmount struct {
	Amount         int64  `json:"amount"`
	PreviousAmount int64  `json:"previous_amount"`
	DiffPercent    string `json:"diff_percent"`
}

// MonthRevenue is this month's receipts against last month, in minor units.
type MonthRevenue struct {
	ReceiptCents         int64  `json:"receipt_cents"`
	PreviousReceiptCents int64  `json:"previous_receipt_cents"`
	DiffPercent          string `json:"diff_percent"`
}

// DailyRevenue is one day's receipts within a reporting period.
type DailyRevenue struct {
	Date         string `json:"date"`
	ReceiptCents int64  `json:"receipt_cents"`
}

// SalesTransactionItem is one line of a sales report transaction.
type SalesTransactionItem struct {
	Product    string `json:"product"`
	Quantity   int32  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// SalesTransaction is one settled order in the sales report, with its
// line items.
type SalesTransaction struct {
	ID           string                 `json:"id"`
	Date         string                 `json:"date"`
	CustomerName string                 `json:"customer_name"`
	TotalCents   int64                  `json:"total_cents"`
	Items        []SalesTransactionItem `json:"items"`
}

// PopularProduct is a best-selling product row.
type PopularProduct struct {
	ProductName string `json:"product_name"`
	Amount      int64  `json:"amount"`
}
