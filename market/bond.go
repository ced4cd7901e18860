// Package market supplies convertible bond data: the Bond record screened
// by formulas, providers that fetch a market snapshot and a Service that
// caches it.
package market

// Bond is a convertible bond with every metric a formula can reference
type Bond struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	PremiumRate     float64 `json:"premium_rate"`
	YTM             float64 `json:"ytm"`
	RemainingYears  float64 `json:"remaining_years"`
	CreditRating    string  `json:"credit_rating"`
	StockCode       string  `json:"stock_code"`
	StockName       string  `json:"stock_name"`
	StockPrice      float64 `json:"stock_price"`
	ConversionPrice float64 `json:"conversion_price"`
	ConversionValue float64 `json:"conversion_value"`
	DoubleLow       float64 `json:"double_low"`
	ChangePct       float64 `json:"change_pct"`
	TurnoverRate    float64 `json:"turnover_rate"`
	Volume          float64 `json:"volume"`
	Turnover        float64 `json:"turnover"`
}

// NumberField implements expression.Record
func (b *Bond) NumberField(name string) (float64, bool) {
	switch name {
	case "price":
		return b.Price, true
	case "premium_rate":
		return b.PremiumRate, true
	case "ytm":
		return b.YTM, true
	case "remaining_years":
		return b.RemainingYears, true
	case "stock_price":
		return b.StockPrice, true
	case "conversion_price":
		return b.ConversionPrice, true
	case "conversion_value":
		return b.ConversionValue, true
	case "double_low":
		return b.DoubleLow, true
	case "change_pct":
		return b.ChangePct, true
	case "turnover_rate":
		return b.TurnoverRate, true
	case "volume":
		return b.Volume, true
	case "turnover":
		return b.Turnover, true
	}
	return 0, false
}

// StringField implements expression.Record
func (b *Bond) StringField(name string) (string, bool) {
	switch name {
	case "code":
		return b.Code, true
	case "name":
		return b.Name, true
	case "credit_rating":
		return b.CreditRating, true
	case "stock_code":
		return b.StockCode, true
	case "stock_name":
		return b.StockName, true
	}
	return "", false
}

// numberFields and stringFields list the Bond columns in output order
var (
	numberFields = []string{
		"price", "premium_rate", "ytm", "remaining_years", "stock_price",
		"conversion_price", "conversion_value", "double_low",
		"change_pct", "turnover_rate", "volume", "turnover",
	}
	stringFields = []string{"code", "name", "credit_rating", "stock_code", "stock_name"}
)

// Columns returns every Bond column name, strings first
func Columns() []string {
	cols := make([]string, 0, len(stringFields)+len(numberFields))
	cols = append(cols, stringFields...)
	return append(cols, numberFields...)
}

// IsSortable reports whether bonds can be sorted by field
func IsSortable(field string) bool {
	var b Bond
	if _, ok := b.NumberField(field); ok {
		return true
	}
	_, ok := b.StringField(field)
	return ok
}
