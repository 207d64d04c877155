// Package tuition computes base fees and early-payment discounts. All
// functions are pure; amounts are in the institution's currency with two
// minor-unit digits.
package tuition

import (
	"fmt"
	"math"
	"strings"
)

// DegreeLevel of a program.
type DegreeLevel string

// FieldBucket groups fields of study with a shared fee schedule.
type FieldBucket string

// Degree levels and field buckets recognised by the fee schedule.
const (
	Bachelor DegreeLevel = "BACHELOR"
	Master   DegreeLevel = "MASTER"

	Business         FieldBucket = "BUSINESS"
	ArtsArchitecture FieldBucket = "ARTS_ARCHITECTURE"
	TechEngineering  FieldBucket = "TECH_ENGINEERING"
	Science          FieldBucket = "SCIENCE"
)

// DiscountPercent is the early-payment discount applied at offer issuance.
// Deadline compliance is enforced operationally on the offer, not here.
const DiscountPercent = 0.25

type feeKey struct {
	level  DegreeLevel
	bucket FieldBucket
}

// Year-1 fees per degree level and field bucket.
var baseFees = map[feeKey]float64{
	{Bachelor, Business}:         4000,
	{Bachelor, ArtsArchitecture}: 4500,
	{Bachelor, TechEngineering}:  5000,
	{Bachelor, Science}:          4800,
	{Master, Business}:           8000,
	{Master, ArtsArchitecture}:   8500,
	{Master, TechEngineering}:    9000,
	{Master, Science}:            9500,
}

// BaseFee returns the year-1 fee for the given degree level and field bucket.
func BaseFee(level DegreeLevel, bucket FieldBucket) (float64, error) {
	fee, ok := baseFees[feeKey{level, bucket}]
	if !ok {
		return 0, fmt.Errorf("no fee schedule for degree level %q and field bucket %q", level, bucket)
	}
	return fee, nil
}

// FullProgramFee returns the fee for the whole program duration.
func FullProgramFee(level DegreeLevel, bucket FieldBucket, years int) (float64, error) {
	base, err := BaseFee(level, bucket)
	if err != nil {
		return 0, err
	}
	if years < 1 {
		years = 1
	}
	return base * float64(years), nil
}

// DiscountedFee applies the early-payment discount, rounded half-up to the
// minor unit. The result is never negative.
func DiscountedFee(amount float64) float64 {
	discounted := amount * (1 - DiscountPercent)
	if discounted < 0 {
		return 0
	}
	return RoundMinorUnit(discounted)
}

// DiscountAmount returns the discount portion for an amount, rounded half-up.
func DiscountAmount(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return RoundMinorUnit(amount * DiscountPercent)
}

// RoundMinorUnit rounds half-up to two decimal places.
func RoundMinorUnit(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// ParseDegreeLevel normalises a raw degree level value. Matching is
// case-insensitive.
func ParseDegreeLevel(raw string) (DegreeLevel, error) {
	switch DegreeLevel(normalize(raw)) {
	case Bachelor:
		return Bachelor, nil
	case Master:
		return Master, nil
	default:
		return "", fmt.Errorf("unknown degree level %q", raw)
	}
}

// ParseFieldBucket normalises a raw field of study to its fee bucket.
// Matching is case-insensitive and accepts the individual fields a bucket
// groups ("tech", "engineering", "architecture", ...).
func ParseFieldBucket(raw string) (FieldBucket, error) {
	switch normalize(raw) {
	case "BUSINESS":
		return Business, nil
	case "ARTS", "ARCHITECTURE", "ARTS_ARCHITECTURE":
		return ArtsArchitecture, nil
	case "TECH", "TECHNOLOGY", "ENGINEERING", "TECH_ENGINEERING":
		return TechEngineering, nil
	case "SCIENCE":
		return Science, nil
	default:
		return "", fmt.Errorf("unknown field bucket %q", raw)
	}
}

func normalize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '/':
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(raw))

	return strings.ToUpper(cleaned)
}
