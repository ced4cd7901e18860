package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// EastMoneyMapping maps Bond fields to the column names of East Money
// convertible bond listings
var EastMoneyMapping = map[string]string{
	"code":             "代码",
	"name":             "名称",
	"price":            "最新",
	"premium_rate":     "转股溢价率",
	"ytm":              "到期收益率",
	"remaining_years":  "剩余年限",
	"credit_rating":    "债券评级",
	"stock_code":       "正股代码",
	"stock_name":       "正股名称",
	"stock_price":      "正股价",
	"conversion_price": "转股价",
	"conversion_value": "转股价值",
	"double_low":       "双低",
	"change_pct":       "涨幅",
	"turnover_rate":    "换手率",
	"volume":           "成交量",
	"turnover":         "成交额",
}

// Decoder turns a JSON document into bonds. Mapping renames source columns
// per Bond field; unmapped fields use their own name.
type Decoder struct {
	RecordsPath []string
	Mapping     map[string]string
}

func (d *Decoder) column(field string) string {
	if col, ok := d.Mapping[field]; ok && col != "" {
		return col
	}
	return field
}

// Decode parses body and converts every record object found at RecordsPath.
// Records without a code are skipped.
func (d *Decoder) Decode(body []byte) ([]*Bond, error) {
	var p fastjson.Parser
	root, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	node := root
	if len(d.RecordsPath) > 0 {
		node = root.Get(d.RecordsPath...)
		if node == nil {
			return nil, fmt.Errorf("records path %q not found", strings.Join(d.RecordsPath, "."))
		}
	}

	records, err := node.Array()
	if err != nil {
		return nil, fmt.Errorf("records are not an array: %w", err)
	}

	bonds := make([]*Bond, 0, len(records))
	for _, rec := range records {
		if rec.Type() != fastjson.TypeObject {
			continue
		}
		b := d.bond(rec)
		if b.Code == "" {
			continue
		}
		bonds = append(bonds, b)
	}
	return bonds, nil
}

func (d *Decoder) bond(rec *fastjson.Value) *Bond {
	str := func(field string) string { return stringValue(rec.Get(d.column(field))) }
	num := func(field string) float64 { return floatValue(rec.Get(d.column(field))) }

	b := &Bond{
		Code:            str("code"),
		Name:            str("name"),
		Price:           num("price"),
		PremiumRate:     num("premium_rate"),
		YTM:             num("ytm"),
		RemainingYears:  num("remaining_years"),
		CreditRating:    str("credit_rating"),
		StockCode:       str("stock_code"),
		StockName:       str("stock_name"),
		StockPrice:      num("stock_price"),
		ConversionPrice: num("conversion_price"),
		ConversionValue: num("conversion_value"),
		ChangePct:       num("change_pct"),
		TurnoverRate:    num("turnover_rate"),
		Volume:          num("volume"),
		Turnover:        num("turnover"),
	}
	if b.CreditRating == "" {
		b.CreditRating = "N/A"
	}

	if v := rec.Get(d.column("double_low")); v != nil && v.Type() != fastjson.TypeNull {
		b.DoubleLow = floatValue(v)
	} else {
		b.DoubleLow = b.Price + b.PremiumRate
	}
	return b
}

func stringValue(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return strings.TrimSpace(string(v.GetStringBytes()))
	case fastjson.TypeNumber:
		return string(v.MarshalTo(nil))
	default:
		return ""
	}
}

func floatValue(v *fastjson.Value) float64 {
	if v == nil {
		return 0
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case fastjson.TypeString:
		return ParseFloat(string(v.GetStringBytes()))
	default:
		return 0
	}
}

// ParseFloat converts text such as "12.5" or "12.5%" to a number.
// Unparseable, NaN and infinite values yield 0.
func ParseFloat(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
