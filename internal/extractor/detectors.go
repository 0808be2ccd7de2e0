package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Built-in detector names, as used in the rules file.
const (
	DetectorPassenger     = "passenger"
	DetectorBilling       = "billing"
	DetectorCompany       = "company"
	DetectorReservation   = "reservation"
	DetectorRooms         = "rooms"
	DetectorVoucher       = "voucher"
	DetectorCheckIn       = "check_in"
	DetectorCheckOut      = "check_out"
	DetectorLengthOfStay  = "length_of_stay"
	DetectorAccommodation = "accommodation"
	DetectorLaundry       = "laundry"
	DetectorMealPlan      = "meal_plan"
	DetectorService       = "service"
	DetectorTransport     = "transport"
)

// DefaultOrder is the built-in detector priority.
var DefaultOrder = []string{
	DetectorPassenger,
	DetectorBilling,
	DetectorCompany,
	DetectorReservation,
	DetectorRooms,
	DetectorVoucher,
	DetectorCheckIn,
	DetectorCheckOut,
	DetectorLengthOfStay,
	DetectorAccommodation,
	DetectorLaundry,
	DetectorMealPlan,
	DetectorService,
	DetectorTransport,
}

const (
	fallbackAccommodation = "Accommodation - Room booked, "
	fallbackLaundry       = "Personal Services - Laundry"
	fallbackService       = "Additional Service"
	mealPlanDescription   = "Dinner, Breakfast & Lunch"
	mealPlanCode          = "DBB+L"
	uomRoomNight          = "Room Night"
	uomUnit               = "Unit"
)

var (
	passengerRe = regexp.MustCompile(`(?i)passenger\s*name`)
	partyRe     = regexp.MustCompile(`Number\s*in\s*party\s*:?\s*(\d+)\s*([A-Za-z][A-Za-z\s]*)?`)

	phoneRe = regexp.MustCompile(`Tel(?:ephone)?(?:\s*(?:Number|No))?\s*\.?\s*:?\s*(\+?[\d(][\d\s()+\-]{5,}\d)`)
	faxRe   = regexp.MustCompile(`Fax(?:\s*(?:Number|No))?\s*\.?\s*:?\s*(\+?[\d(][\d\s()+\-]{5,}\d)`)
	emailRe = regexp.MustCompile(`E-?mail(?:\s*Address)?\s*:?\s*([A-Za-z0-9_%+\-]+(?:\s*\.\s*[A-Za-z0-9_%+\-]+)*\s*@\s*[A-Za-z0-9\-]+(?:\s*\.\s*[A-Za-z0-9\-]+)+)`)
	vatRe   = regexp.MustCompile(`\bVAT\s*(?:Reg(?:istration)?\s*)?(?:Nr|No|Number)?\s*\.?\s*:?\s*(\d[\d\s]{5,}\d)`)
	// contactLabelRe matches labelled contact fields whose value may sit
	// on a later line.
	contactLabelRe = regexp.MustCompile(`\bTel(?:ephone)?\s*(?:Number|No\b)|\bTel\s*\.?\s*:|\bFax\s*(?:Number|No\b|\.?\s*:)|\bE-?mail\s*(?:Address\s*)?:|\bVAT\s*(?:Reg(?:istration)?\s*)?(?:Nr|No|Number)\b`)

	propertyRe     = regexp.MustCompile(`\b(?:Lodge|Guest\s*House|Guesthouse|Hotel|Apartments?|Inn|Resort|Manor|Chalets?)\b`)
	taglineRe      = regexp.MustCompile(`(?i)\baccommodation\s+for\b`)
	streetRe       = regexp.MustCompile(`\b\d+[A-Za-z]?\s+(?:[A-Z][A-Za-z]*\s+){1,4}(?:Road|Street|Avenue|Drive|Lane|Crescent|Boulevard|Way|Rd|St|Ave)\b.*`)
	supplierRe     = regexp.MustCompile(`\bSupplier\b`)
	supplierCodeRe = regexp.MustCompile(`Supplier\s*Code\s*:?\s*([A-Z0-9]{2,}(?:\s+\d+)?)\b`)
	supplierNameRe = regexp.MustCompile(`Supplier\s*Name\s*:?\s*(.+)`)

	reservationRe = regexp.MustCompile(`Reservation\s*(?:Number|No)\s*\.?\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-/]*(?:\s+\d[\d\-/]*)?)`)
	roomsLabelRe  = regexp.MustCompile(`Number\s*of\s*Rooms\s*:?\s*(\d+)`)
	roomsWordRe   = regexp.MustCompile(`\bRooms\b`)
	roomsLooseRe  = regexp.MustCompile(`\bRooms\s*:?\s*(\d+)|(\d+)\s*Rooms\b`)
	voucherRe     = regexp.MustCompile(`Voucher\s*Number\s*:?\s*([A-Z0-9]+(?:\s+\d+)?)`)
	checkInRe     = regexp.MustCompile(`(?i)check-?\s*in\s*(?:date)?\s*:?\s*(\d{4}/\d{2}/\d{2})`)
	checkOutRe    = regexp.MustCompile(`(?i)check-?\s*out\s*(?:date)?\s*:?\s*(\d{4}/\d{2}/\d{2})`)
	checkInWord   = regexp.MustCompile(`(?i)check-?\s*in\b`)
	checkOutWord  = regexp.MustCompile(`(?i)check-?\s*out\b`)
	stayRe        = regexp.MustCompile(`Length\s*of\s*Stay\s*:?\s*(\d+)`)

	roomTypeRe  = regexp.MustCompile(`\b(Single|Double|Twin|Triple)\b`)
	unitWordRe  = regexp.MustCompile(`\bUnit\b`)
	transportRe = regexp.MustCompile(`(?i)daily\s*transport\s*@?\s*R?\s*(\d+(?:\.\d{1,2})?)\s*(?:per\s*day\s*)?from\s+(.+?)\s+to\s+(.+?)\s+(?:and|&)\s+back`)
	transportW  = regexp.MustCompile(`(?i)daily\s*transport`)

	digitRe = regexp.MustCompile(`\d`)
)

// passengerSkip marks lookahead lines that belong to the agent block.
var passengerSkip = []string{"Debtor", "Acc", "IATA", "Voucher"}

// labelledFields are line labels owned by higher-specificity detectors.
var labelledFields = []string{
	"Voucher Number", "Reservation Number", "Number of Rooms",
	"Length of Stay", "Check-in", "Check-out", "Passenger",
}

// contactLabels end a free-text value that shares a line with contacts.
var contactLabels = []string{
	"Telephone", "Tel ", "Fax", "Email", "E-mail", "VAT ", "Supplier",
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// cutAtAny truncates s at the earliest occurrence of any marker.
func cutAtAny(s string, markers []string) string {
	end := len(s)
	for _, m := range markers {
		if i := strings.Index(s, m); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(s[:end])
}

// joinCode rejoins a reference code whose letter prefix was split from
// its digits, as in "RES 12345". A first token ending in a digit is
// complete on its own.
func joinCode(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	if len(fields) > 1 && unicode.IsLetter(rune(first[len(first)-1])) {
		return first + fields[1]
	}
	return first
}

func trimDescription(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), " .,-:")
}

// ==================== Parties ====================

func passengerDetector(cfg *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return passengerRe.MatchString(line)
		},
		Apply: func(b *builder, lines []string, i int) {
			if m := partyRe.FindStringSubmatch(lines[i]); m != nil {
				setIfEmpty(&b.rec.PartySize, m[1])
				if name := cutAtAny(m[2], passengerSkip); len(name) > 3 {
					setIfEmpty(&b.rec.PassengerNames, cfg.norm.NormaliseLine(name))
					return
				}
			}

			for j := i + 1; j < len(lines) && j <= i+4; j++ {
				candidate := strings.TrimSpace(lines[j])
				if candidate == "" || containsAny(candidate, passengerSkip) {
					continue
				}
				if len(candidate) > 3 {
					setIfEmpty(&b.rec.PassengerNames, cfg.norm.NormaliseLine(candidate))
					return
				}
			}
		},
	}
}

var phoneGapRe = regexp.MustCompile(`\)\s*(\d)`)

// formatPhone collapses spacing and separates an area code in brackets.
func formatPhone(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(phoneGapRe.ReplaceAllString(s, ") $1"))
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func billingDetector(cfg *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			if strings.Contains(line, "Billing Address") {
				return true
			}
			if cfg.isCharge(line) {
				return false
			}
			return contactLabelRe.MatchString(line) ||
				phoneRe.MatchString(line) ||
				faxRe.MatchString(line) ||
				emailRe.MatchString(line) ||
				vatRe.MatchString(line)
		},
		Apply: func(b *builder, lines []string, i int) {
			line := lines[i]
			if idx := strings.Index(line, "Billing Address"); idx >= 0 {
				b.block = blockBilling
				rest := strings.TrimLeft(line[idx+len("Billing Address"):], " :")
				setIfEmpty(&b.rec.BillingCompany, cutAtAny(rest, contactLabels))
			}
			if m := phoneRe.FindStringSubmatch(line); m != nil {
				b.setPhone(formatPhone(m[1]))
			}
			if m := faxRe.FindStringSubmatch(line); m != nil {
				b.setFax(formatPhone(m[1]))
			}
			if m := emailRe.FindStringSubmatch(line); m != nil {
				b.setEmail(compact(m[1]))
			}
			if m := vatRe.FindStringSubmatch(line); m != nil {
				b.setVAT(compact(m[1]))
			}
		},
	}
}

func companyDetector(cfg *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			if cfg.isCharge(line) {
				return false
			}
			if taglineRe.MatchString(line) {
				return true
			}
			if containsAny(line, labelledFields) {
				return false
			}
			return propertyRe.MatchString(line) ||
				streetRe.MatchString(line) ||
				supplierRe.MatchString(line)
		},
		Apply: func(b *builder, lines []string, i int) {
			line := lines[i]

			if supplierRe.MatchString(line) {
				b.block = blockCompany
				if m := supplierCodeRe.FindStringSubmatch(line); m != nil {
					setIfEmpty(&b.rec.SupplierCode, joinCode(m[1]))
				}
				if m := supplierNameRe.FindStringSubmatch(line); m != nil {
					setIfEmpty(&b.rec.CompanyName, cutAtAny(m[1], contactLabels))
				}
				return
			}

			if taglineRe.MatchString(line) {
				setIfEmpty(&b.rec.CompanyTagline, line)
				return
			}

			name := line
			if loc := streetRe.FindStringIndex(line); loc != nil {
				b.setAddress(line[loc[0]:loc[1]])
				name = line[:loc[0]]
			}
			if propertyRe.MatchString(name) {
				b.block = blockCompany
				setIfEmpty(&b.rec.CompanyName, cutAtAny(name, contactLabels))
			}
		},
	}
}

// ==================== Booking ====================

func reservationDetector(_ *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return strings.Contains(line, "Reservation Number") ||
				strings.Contains(line, "Reservation No")
		},
		Apply: func(b *builder, lines []string, i int) {
			if m := reservationRe.FindStringSubmatch(lines[i]); m != nil {
				setIfEmpty(&b.rec.ReservationNumber, joinCode(m[1]))
			}
		},
	}
}

func roomsDetector(_ *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return strings.Contains(line, "Number of Rooms") ||
				(roomsWordRe.MatchString(line) && digitRe.MatchString(line))
		},
		Apply: func(b *builder, lines []string, i int) {
			if m := roomsLabelRe.FindStringSubmatch(lines[i]); m != nil {
				setIfEmpty(&b.rec.NumberOfRooms, m[1])
				return
			}
			if m := roomsLooseRe.FindStringSubmatch(lines[i]); m != nil {
				setIfEmpty(&b.rec.NumberOfRooms, m[1]+m[2])
			}
		},
	}
}

func voucherDetector(_ *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return strings.Contains(line, "Voucher Number")
		},
		Apply: func(b *builder, lines []string, i int) {
			if m := voucherRe.FindStringSubmatch(lines[i]); m != nil {
				setIfEmpty(&b.rec.VoucherNumber, joinCode(m[1]))
			}
		},
	}
}

// applyDates reads both stay dates, which some vouchers print on one line.
func applyDates(b *builder, line string) {
	if m := checkInRe.FindStringSubmatch(line); m != nil {
		setIfEmpty(&b.rec.CheckIn, m[1])
	}
	if m := checkOutRe.FindStringSubmatch(line); m != nil {
		setIfEmpty(&b.rec.CheckOut, m[1])
	}
}

func checkInDetector(_ *Config) Detector {
	return Detector{
		Match: checkInWord.MatchString,
		Apply: func(b *builder, lines []string, i int) {
			applyDates(b, lines[i])
		},
	}
}

func checkOutDetector(_ *Config) Detector {
	return Detector{
		Match: checkOutWord.MatchString,
		Apply: func(b *builder, lines []string, i int) {
			applyDates(b, lines[i])
		},
	}
}

func lengthOfStayDetector(_ *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return strings.Contains(line, "Length of Stay")
		},
		Apply: func(b *builder, lines []string, i int) {
			if m := stayRe.FindStringSubmatch(lines[i]); m != nil {
				setIfEmpty(&b.rec.LengthOfStay, m[1])
			}
		},
	}
}

// ==================== Charges ====================

// amounts converts a parsed amount tail to typed values.
// The pattern guarantees the numbers parse.
func amounts(a amountLine) (int, decimal.Decimal, decimal.Decimal) {
	qty, _ := strconv.Atoi(a.qty)
	rate, _ := domain.ParseAmount(a.rate)
	total, _ := domain.ParseAmount(a.total)
	return qty, rate, total
}

// isCharge reports whether line belongs to one of the charge detectors.
// Party and company detectors run first and must leave such lines alone.
func (c *Config) isCharge(line string) bool {
	return c.hasCurrency(line) || transportW.MatchString(line) || hasMealPlan(line)
}

func hasMealPlan(line string) bool {
	if strings.Contains(line, mealPlanCode) {
		return true
	}
	return strings.Contains(line, "Dinner") &&
		strings.Contains(line, "Breakfast") &&
		strings.Contains(line, "Lunch")
}

func mealPlanLabel(line string) string {
	if strings.Contains(line, mealPlanCode) {
		return mealPlanDescription + " (" + mealPlanCode + ")"
	}
	return mealPlanDescription
}

func accommodationDetector(cfg *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return (strings.Contains(line, uomRoomNight) && cfg.hasCurrency(line)) ||
				strings.Contains(line, "Accommodation")
		},
		Apply: func(b *builder, lines []string, i int) {
			line := lines[i]
			a, ok := cfg.parseAmounts(line)
			if !ok {
				return
			}

			roomType := roomTypeRe.FindString(line)
			setIfEmpty(&b.rec.RoomType, roomType)
			if hasMealPlan(line) {
				setIfEmpty(&b.rec.MealPlan, mealPlanLabel(line))
			}

			desc := a.prefix
			if idx := strings.Index(desc, uomRoomNight); idx >= 0 {
				desc = desc[:idx]
			}
			desc = trimDescription(desc)
			if desc == "" {
				if roomType == "" {
					roomType = "Room"
				}
				desc = fallbackAccommodation + roomType
			}

			uom := ""
			if strings.Contains(line, uomRoomNight) {
				uom = uomRoomNight
			}

			qty, rate, total := amounts(a)
			if b.rec.Description == "" {
				b.rec.Description = desc
				b.rec.UOM = uom
				b.rec.Qty = strconv.Itoa(qty)
				b.rec.CurrencyRate = a.currency
				b.rec.RateIncl = rate.StringFixed(2)
				b.rec.MaxTotal = total.StringFixed(2)
				return
			}
			b.addService(domain.LineItem{Description: desc, Qty: qty, UnitPrice: rate, Total: total})
		},
	}
}

func laundryDetector(cfg *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			if !strings.Contains(line, "Laundry") {
				return false
			}
			return strings.Contains(line, "Personal Serv") || cfg.hasCurrency(line)
		},
		Apply: func(b *builder, lines []string, i int) {
			a, ok := cfg.parseAmounts(lines[i])
			if !ok {
				return
			}

			desc := trimDescription(strings.TrimSuffix(a.prefix, uomUnit))
			if desc == "" {
				desc = fallbackLaundry
			}
			qty, rate, total := amounts(a)

			if b.rec.AncillaryDescription == "" && b.rec.AncillaryCharges == "" {
				b.rec.AncillaryDescription = desc
				b.rec.AncillaryCharges = total.StringFixed(2)
				return
			}
			b.addAncillary(domain.LineItem{Description: desc, Qty: qty, UnitPrice: rate, Total: total})
		},
	}
}

func mealPlanDetector(_ *Config) Detector {
	return Detector{
		Match: hasMealPlan,
		Apply: func(b *builder, lines []string, i int) {
			label := mealPlanLabel(lines[i])
			setIfEmpty(&b.rec.MealPlan, label)
			if b.hasServiceLike("Dinner") {
				return
			}
			b.addService(domain.NewLineItem(label, 1, decimal.Zero))
		},
	}
}

func serviceDetector(cfg *Config) Detector {
	return Detector{
		Match: func(line string) bool {
			return unitWordRe.MatchString(line) &&
				cfg.hasCurrency(line) &&
				!strings.Contains(line, "Laundry") &&
				!strings.Contains(line, uomRoomNight)
		},
		Apply: func(b *builder, lines []string, i int) {
			a, ok := cfg.parseAmounts(lines[i])
			if !ok {
				return
			}

			desc := a.prefix
			if idx := strings.LastIndex(desc, uomUnit); idx >= 0 {
				desc = desc[:idx]
			}
			desc = trimDescription(desc)
			if desc == "" {
				desc = fallbackService
			}
			qty, rate, total := amounts(a)

			if b.rec.Description == "" {
				b.rec.Description = desc
				b.rec.UOM = uomUnit
				b.rec.Qty = strconv.Itoa(qty)
				b.rec.CurrencyRate = a.currency
				b.rec.RateIncl = rate.StringFixed(2)
				b.rec.MaxTotal = total.StringFixed(2)
				return
			}
			if b.hasServiceLike(desc) {
				logger.Debug("extractor: duplicate service %q skipped", desc)
				return
			}
			b.addService(domain.LineItem{Description: desc, Qty: qty, UnitPrice: rate, Total: total})
		},
	}
}

func transportDetector(_ *Config) Detector {
	return Detector{
		Match: transportW.MatchString,
		Apply: func(b *builder, lines []string, i int) {
			m := transportRe.FindStringSubmatch(lines[i])
			if m == nil {
				return
			}
			rate, ok := domain.ParseAmount(m[1])
			if !ok {
				return
			}
			b.transport = append(b.transport, pendingTransport{
				description: fmt.Sprintf("Daily Transport from %s to %s and back",
					strings.TrimSpace(m[2]), strings.TrimSpace(m[3])),
				rate: rate,
			})
		},
	}
}
