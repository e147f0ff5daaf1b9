package bankdetails

// Field names a recipient bank detail the provider requires for a
// currency.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Record is the static per-currency reference data: which recipient fields
// a transfer needs, and the service's own receiving account for that
// currency. Read-only.
type Record struct {
	Currency         string            `json:"currency"`
	RequiredFields   []Field           `json:"required_fields"`
	ReceivingAccount map[string]string `json:"receiving_account"`
}

var records = map[string]Record{
	"USD": {
		Currency: "USD",
		RequiredFields: []Field{
			{Name: "accountNumber", Label: "Account number"},
			{Name: "abartn", Label: "ACH routing number"},
			{Name: "accountType", Label: "Account type (checking or savings)"},
		},
		ReceivingAccount: map[string]string{
			"bankName":      "Community Federal Savings Bank",
			"accountNumber": "8313560023",
			"abartn":        "026073150",
			"accountType":   "checking",
		},
	},
	"EUR": {
		Currency: "EUR",
		RequiredFields: []Field{
			{Name: "iban", Label: "IBAN"},
		},
		ReceivingAccount: map[string]string{
			"bankName": "BorderPay Europe SA",
			"iban":     "BE79 9670 3038 5683",
			"bic":      "TRWIBEB1XXX",
		},
	},
	"GBP": {
		Currency: "GBP",
		RequiredFields: []Field{
			{Name: "sortCode", Label: "Sort code"},
			{Name: "accountNumber", Label: "Account number"},
		},
		ReceivingAccount: map[string]string{
			"bankName":      "BorderPay UK Ltd",
			"sortCode":      "23-14-70",
			"accountNumber": "93664996",
		},
	},
	"JPY": {
		Currency: "JPY",
		RequiredFields: []Field{
			{Name: "bankCode", Label: "Bank code"},
			{Name: "branchCode", Label: "Branch code"},
			{Name: "accountNumber", Label: "Account number"},
			{Name: "accountType", Label: "Account type (futsuu or touza)"},
		},
		ReceivingAccount: map[string]string{
			"bankName": "MUFG Bank",
			"swift":    "BOTKJPJT",
		},
	},
	"CAD": {
		Currency: "CAD",
		RequiredFields: []Field{
			{Name: "institutionNumber", Label: "Institution number"},
			{Name: "transitNumber", Label: "Transit number"},
			{Name: "accountNumber", Label: "Account number"},
		},
		ReceivingAccount: map[string]string{
			"bankName":          "Peoples Trust",
			"institutionNumber": "621",
			"transitNumber":     "16001",
			"accountNumber":     "200110011000",
		},
	},
	"AUD": {
		Currency: "AUD",
		RequiredFields: []Field{
			{Name: "bsbCode", Label: "BSB code"},
			{Name: "accountNumber", Label: "Account number"},
		},
		ReceivingAccount: map[string]string{
			"bankName":      "BorderPay Australia Pty",
			"bsbCode":       "802-985",
			"accountNumber": "414767058",
		},
	},
	"CHF": {
		Currency: "CHF",
		RequiredFields: []Field{
			{Name: "iban", Label: "IBAN"},
		},
		ReceivingAccount: map[string]string{
			"bankName": "Basellandschaftliche Kantonalbank",
			"iban":     "CH51 0483 5012 3456 7800 0",
		},
	},
	"CNY": {
		Currency: "CNY",
		RequiredFields: []Field{
			{Name: "accountNumber", Label: "UnionPay card number"},
		},
		ReceivingAccount: map[string]string{
			"bankName": "Bank of China",
			"swift":    "BKCHCNBJ",
		},
	},
	"HKD": {
		Currency: "HKD",
		RequiredFields: []Field{
			{Name: "bankCode", Label: "Bank code"},
			{Name: "accountNumber", Label: "Account number"},
		},
		ReceivingAccount: map[string]string{
			"bankName":      "HSBC Hong Kong",
			"bankCode":      "004",
			"accountNumber": "567-002919-001",
		},
	},
	"SGD": {
		Currency: "SGD",
		RequiredFields: []Field{
			{Name: "bankCode", Label: "Bank code"},
			{Name: "branchCode", Label: "Branch code"},
			{Name: "accountNumber", Label: "Account number"},
		},
		ReceivingAccount: map[string]string{
			"bankName":      "DBS Bank",
			"bankCode":      "7171",
			"branchCode":    "001",
			"accountNumber": "072-360051-8",
		},
	},
}

// Lookup returns the record for a currency code.
func Lookup(currency string) (Record, bool) {
	record, ok := records[currency]
	return record, ok
}

// Currencies lists the codes with a record, unordered.
func Currencies() []string {
	codes := make([]string, 0, len(records))
	for code := range records {
		codes = append(codes, code)
	}
	return codes
}
