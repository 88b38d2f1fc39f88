package testkit

import (
	"fmt"
	"math"
	"math/rand"
)

// SalesGeneratorConfig configures the product catalogue generator
type SalesGeneratorConfig struct {
	ProductCount     int     `json:"product_count"`
	DuplicateRate    float64 `json:"duplicate_rate"`     // share of listings reusing an earlier product name
	MissingPriceRate float64 `json:"missing_price_rate"` // share of listings without a discounted price
	Seed             int64   `json:"seed"`
}

// DefaultSalesConfig returns sensible defaults for catalogue generation
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		ProductCount:     1351,
		DuplicateRate:    0.08,
		MissingPriceRate: 0.01,
		Seed:             42,
	}
}

// Product is one cleaned catalogue listing, as the upstream pipeline leaves
// it before aggregation. A zero DiscountedPrice means the price was missing.
type Product struct {
	ProductID          string
	Name               string
	Category           string
	ActualPrice        float64
	DiscountedPrice    float64
	DiscountPercentage float64
	Rating             float64
	RatingCount        int
	ReviewTitle        string
}

// categoryProfile shapes the listings of one category
type categoryProfile struct {
	path       string
	nouns      []string
	basePrice  float64
	ratingBias float64
	weight     int
}

var categoryProfiles = []categoryProfile{
	{"Computers&Accessories|Accessories&Peripherals|Cables&Accessories|Cables|USBCables", []string{"USB Type-C Cable", "Micro USB Cable", "Lightning Cable", "Braided Charging Cable"}, 350, 0.05, 9},
	{"Electronics|HomeTheater,TV&Video|Accessories|Cables|HDMICables", []string{"HDMI Cable", "4K HDMI Cable", "HDMI Extender"}, 450, 0.0, 4},
	{"Electronics|Mobiles&Accessories|Smartphones&BasicMobiles|Smartphones", []string{"5G Smartphone", "Smartphone", "Dual SIM Smartphone"}, 15000, 0.05, 7},
	{"Electronics|Headphones,Earbuds&Accessories|Headphones|In-Ear", []string{"Wireless Earbuds", "In-Ear Headphones", "Neckband Earphones"}, 1200, -0.1, 6},
	{"Electronics|WearableTechnology|SmartWatches", []string{"Smart Watch", "Fitness Band", "Smartwatch with Calling"}, 2500, -0.15, 5},
	{"Home&Kitchen|Kitchen&HomeAppliances|SmallKitchenAppliances|Kettles&HotWaterDispensers|ElectricKettles", []string{"Electric Kettle", "Stainless Steel Kettle"}, 900, 0.0, 4},
	{"Home&Kitchen|Heating,Cooling&AirQuality|RoomHeaters|FanHeaters", []string{"Fan Heater", "Room Heater", "Oil Filled Radiator"}, 2200, -0.2, 3},
	{"Computers&Accessories|Accessories&Peripherals|Keyboards,Mice&InputDevices|Mice", []string{"Wireless Mouse", "Optical Mouse", "Gaming Mouse"}, 600, 0.1, 4},
	{"Computers&Accessories|NetworkingDevices|NetworkAdapters|WirelessUSBAdapters", []string{"WiFi Adapter", "Nano USB WiFi Dongle"}, 700, -0.05, 2},
	{"Electronics|Cameras&Photography|Accessories|Batteries&Chargers|BatteryChargers", []string{"Battery Charger", "Rechargeable Batteries"}, 800, 0.1, 2},
	{"OfficeProducts|OfficePaperProducts|Paper|Stationery|Pens,Pencils&WritingSupplies|Pens&Refills|GelInkRollerballPens", []string{"Gel Pen Set", "Roller Ball Pen"}, 150, 0.2, 2},
	{"Toys&Games|Arts&Crafts|Drawing&PaintingSupplies|ColouringPens&Markers", []string{"Colour Pencils", "Sketch Pens", "Art Markers"}, 250, 0.15, 1},
}

var (
	brands       = []string{"boAt", "Ambrane", "Portronics", "AmazonBasics", "Samsung", "Redmi", "Noise", "Fire-Boltt", "pTron", "Wayona", "Philips", "Pigeon", "Logitech", "TP-Link", "Classmate", "Faber-Castell"}
	descriptors  = []string{"with Fast Charging", "for Android and iOS", "(Black)", "(White)", "1.5 m", "Pack of 2", "with Mic", "3 Year Warranty", "Ultra Slim", "Bluetooth 5.3"}
	reviewTitles = []string{"Good product", "Value for money", "Nice", "Worth the price", "Excellent", "Good", "Not bad", "Average", "Works as expected", "Poor quality"}
)

// SalesDataGenerator generates a realistic product catalogue
type SalesDataGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesDataGenerator creates a new catalogue generator
func NewSalesDataGenerator(config SalesGeneratorConfig) *SalesDataGenerator {
	return &SalesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateProducts generates the complete catalogue. The same config always
// yields the same catalogue.
func (g *SalesDataGenerator) GenerateProducts() []Product {
	totalWeight := 0
	for _, c := range categoryProfiles {
		totalWeight += c.weight
	}

	products := make([]Product, 0, g.config.ProductCount)
	for i := 0; i < g.config.ProductCount; i++ {
		profile := g.pickCategory(totalWeight)

		name := g.productName(profile)
		if i > 0 && g.rng.Float64() < g.config.DuplicateRate {
			// Relisted products share a name with an earlier listing of any category
			name = products[g.rng.Intn(len(products))].Name
		}

		products = append(products, g.product(name, profile))
	}
	return products
}

func (g *SalesDataGenerator) pickCategory(totalWeight int) categoryProfile {
	n := g.rng.Intn(totalWeight)
	for _, c := range categoryProfiles {
		if n < c.weight {
			return c
		}
		n -= c.weight
	}
	return categoryProfiles[len(categoryProfiles)-1]
}

func (g *SalesDataGenerator) productName(c categoryProfile) string {
	brand := brands[g.rng.Intn(len(brands))]
	noun := c.nouns[g.rng.Intn(len(c.nouns))]
	desc := descriptors[g.rng.Intn(len(descriptors))]
	return fmt.Sprintf("%s %s %s", brand, noun, desc)
}

func (g *SalesDataGenerator) product(name string, c categoryProfile) Product {
	// Log-normal spread around the category's typical price
	actual := math.Round(c.basePrice * math.Exp(g.rng.NormFloat64()*0.6))
	if actual < 99 {
		actual = 99
	}

	// Cheap accessories are discounted harder
	discount := math.Round(clamp(g.rng.NormFloat64()*18+45-math.Log10(actual)*4, 0, 94))
	discounted := math.Round(actual * (1 - discount/100))

	// Ratings drift up slightly with price and with the category's bias
	rating := 4.0 + c.ratingBias + 0.04*math.Log10(actual) + g.rng.NormFloat64()*0.3
	rating = math.Round(clamp(rating, 2.0, 5.0)*10) / 10

	count := int(math.Exp(g.rng.NormFloat64()*1.8 + 7.5))

	p := Product{
		ProductID:          fmt.Sprintf("B0%08X", g.rng.Uint32()),
		Name:               name,
		Category:           c.path,
		ActualPrice:        actual,
		DiscountedPrice:    discounted,
		DiscountPercentage: discount,
		Rating:             rating,
		RatingCount:        count,
		ReviewTitle:        reviewTitles[g.rng.Intn(len(reviewTitles))],
	}
	if g.rng.Float64() < g.config.MissingPriceRate {
		p.DiscountedPrice = 0
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
