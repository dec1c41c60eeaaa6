package workflow

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/models"
	"github.com/shopspring/decimal"
)

// Ordered header synonym tables, first present key wins. The source
// files come from several weighbridge vendors with Thai and English
// column names; extend these lists when a new export shows up.
var (
	dateHeaders      = []string{"Date", "วันที่", "date", "DATETIME", "TicketDate", "time_in"}
	directionHeaders = []string{"Type", "ประเภท", "ประเภทชั่ง", "type", "IN/OUT", "Direction"}
	productHeaders   = []string{"Product", "สินค้า", "Material", "product", "material"}
	companyHeaders   = []string{"CompanyID", "Company", "Customer", "บริษัท", "ชื่อบริษัท", "Partner", "customer_code"}
	weightHeaders    = []string{"NetWeight", "NetKG", "น้ำหนักสุทธิ(กก.)", "น้ำหนักสุทธิ final", "NET", "net", "WeightKg", "Weight"}
)

const unknownValue = "UNKNOWN"

// Spreadsheet serial dates count days from 1899-12-30; day 25569 is
// the Unix epoch.
const sheetEpochOffsetDays = 25569

// DD/MM/YYYY, HH:mm with a Buddhist-calendar year, e.g. "01/01/2568, 09:30".
var thaiDateTimeRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}),?\s+(\d{1,2}):(\d{2})$`)

// NormalizeRow maps one spreadsheet row onto a canonical transaction
// record (pre-ID, pre-BatchId). It is pure and total: garbage input
// yields a well-formed UNKNOWN record, never an error and never a
// dropped row.
func NormalizeRow(row map[string]any) *models.WeighbridgeTransaction {
	raw, _ := json.Marshal(row)

	dirRaw, _ := pickFirstKey(row, directionHeaders)
	dateRaw, dateOk := pickFirstKey(row, dateHeaders)

	return &models.WeighbridgeTransaction{
		TransactionDate: resolveDate(dateRaw, dateOk),
		CompanyId:       resolveText(row, companyHeaders),
		Product:         resolveText(row, productHeaders),
		WeighType:       models.NormalizeWeighType(toString(dirRaw)),
		NetWeightKg:     resolveWeight(row),
		Raw:             raw,
	}
}

func pickFirstKey(row map[string]any, candidates []string) (any, bool) {
	for _, k := range candidates {
		if v, ok := row[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func resolveText(row map[string]any, candidates []string) string {
	v, ok := pickFirstKey(row, candidates)
	if !ok {
		return unknownValue
	}
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return unknownValue
	}
	return s
}

func resolveDate(v any, ok bool) time.Time {
	if !ok {
		return time.Now()
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case float64:
		return serialToTime(t)
	case int:
		return serialToTime(float64(t))
	case int64:
		return serialToTime(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Now()
		}
		return serialToTime(f)
	case string:
		return parseDateString(t)
	default:
		return time.Now()
	}
}

func serialToTime(serial float64) time.Time {
	secs := (serial - sheetEpochOffsetDays) * 86400
	return time.Unix(int64(secs), 0).UTC()
}

func parseDateString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}

	if m := thaiDateTimeRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		// Buddhist era runs 543 years ahead of the Gregorian calendar.
		if year > 2400 {
			year -= 543
		}
		return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// ISO-like prefix with a trailing fragment we don't recognize.
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t
		}
	}
	// Serial that arrived as text.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToTime(f)
	}
	return time.Now()
}

func resolveWeight(row map[string]any) decimal.Decimal {
	v, ok := pickFirstKey(row, weightHeaders)
	if !ok {
		return decimal.Zero
	}
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return strings.Trim(string(b), `"`)
	}
}
