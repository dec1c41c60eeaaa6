package workflow

import (
	"fmt"
	"strings"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/models"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"github.com/shopspring/decimal"
)

// Reports shorter than this carry no item lines and are not worth a
// push message.
const minReportChars = 20

// BatchReportHeader names the uploaded file a report was built from.
func BatchReportHeader(fileName string) string {
	return "สรุปรีพอร์ตไฟล์: " + fileName
}

// DailyReportHeader names the calendar day a summary covers.
func DailyReportHeader(day time.Time) string {
	return fmt.Sprintf("สรุปข้อมูลวันที่ %02d/%02d/%d", day.Day(), int(day.Month()), day.Year()+543)
}

// FormatCompanyReport renders one company's grouped totals as a text
// report: header, a BUY section and a SELL section, each with
// per-product tonnage lines and a grand total. A direction with no
// items (or gated off by the notify flags) omits its section entirely;
// a report with no sections at all renders empty.
func FormatCompanyReport(header, companyId string, items []models.CompanyProductTotal, notifyBuy, notifySell bool) string {
	var buy, sell []models.CompanyProductTotal
	for _, it := range items {
		if it.WeighType == models.WeighTypeBuy {
			buy = append(buy, it)
		} else {
			sell = append(sell, it)
		}
	}

	var sections []string
	if notifyBuy && len(buy) > 0 {
		sections = append(sections, formatSection("สรุปยอดซื้อ (BUY):", "รวมยอดซื้อทั้งหมด", buy))
	}
	if notifySell && len(sell) > 0 {
		sections = append(sections, formatSection("สรุปยอดขาย (SELL):", "รวมยอดขายทั้งหมด", sell))
	}
	if len(sections) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\nบริษัท: ")
	sb.WriteString(companyId)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(sections, "\n\n"))
	return sb.String()
}

func formatSection(title, totalLabel string, items []models.CompanyProductTotal) string {
	var sb strings.Builder
	sb.WriteString(title)
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalWeight)
		sb.WriteString("\n- ")
		sb.WriteString(it.Product)
		sb.WriteString(": ")
		sb.WriteString(utils.FormatTonnes(it.TotalWeight))
		sb.WriteString(" ตัน")
	}
	sb.WriteString("\n")
	sb.WriteString(totalLabel)
	sb.WriteString(": ")
	sb.WriteString(utils.FormatTonnes(total))
	sb.WriteString(" ตัน")
	return sb.String()
}

// ReportIsEmpty applies the minimum content threshold.
func ReportIsEmpty(text string) bool {
	return len(strings.TrimSpace(text)) < minReportChars
}

// directionsLabel names the directions a rendered report covers, e.g.
// "BUY,SELL". Empty when the report renders no section.
func directionsLabel(items []models.CompanyProductTotal, notifyBuy, notifySell bool) string {
	var hasBuy, hasSell bool
	for _, it := range items {
		if it.WeighType == models.WeighTypeBuy {
			hasBuy = true
		} else {
			hasSell = true
		}
	}
	var parts []string
	if notifyBuy && hasBuy {
		parts = append(parts, string(models.WeighTypeBuy))
	}
	if notifySell && hasSell {
		parts = append(parts, string(models.WeighTypeSell))
	}
	return strings.Join(parts, ",")
}
