package pricing

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/logger"
)

// PriceTable maps catalog keys (sand_m3, cement_bag, rebar_corr_1_2_m) to
// unit prices in the shop currency.
type PriceTable map[string]float64

// Catalog is the loaded price table plus the load error, if any. A catalog
// that failed to load still serves requests; pricing endpoints surface the
// error instead of crashing the process.
type Catalog struct {
	Prices PriceTable
	Err    error
}

// row is one CSV record addressable by both original and normalized header
// names, so "Item Name", "ITEM" and "itemname" all resolve.
type row map[string]string

func (r row) first(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
		if v := r[normKey(k)]; v != "" {
			return v
		}
	}
	return ""
}

// readRows reads a CSV file into rows with normalized header aliases. A
// missing file yields no rows and no error; catalogs are optional.
func readRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rdr := csv.NewReader(f)
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true

	records, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		r := make(row, len(headers)*2)
		for i, h := range headers {
			if i >= len(rec) {
				break
			}
			v := strings.TrimSpace(rec[i])
			r[h] = v
			r[normKey(h)] = v
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// takeLowest records the lowest price seen for a key. Duplicate listings
// keep the cheapest.
func takeLowest(prices PriceTable, key string, price float64) {
	if existing, ok := prices[key]; !ok || price < existing {
		prices[key] = price
	}
}

// LoadAggregates loads the aggregates catalog: key,price rows priced per
// cubic meter.
func LoadAggregates(path string) (PriceTable, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	prices := PriceTable{}
	for _, r := range rows {
		key := r.first("key", "Key", "KEY")
		price, ok := ParsePrice(r.first("price", "Price", "PRICE", "Selling"))
		if key == "" || !ok {
			continue
		}
		prices[key] = price
	}
	return prices, nil
}

// LoadSteel loads the steel catalog. Rebar listings become per-meter
// rebar_{grade}_{size}_m keys; purlin listings become purlin_z_m and
// purlin_c_m. Lengths come from the listing text, defaulting rebar to a
// 19 ft stick.
func LoadSteel(path string) (PriceTable, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	prices := PriceTable{}
	for _, r := range rows {
		name := r.first("name", "Name", "ITEM", "Item Name")
		price, ok := ParsePrice(r.first("price", "Price", "SELLING", "Selling"))
		if name == "" || !ok {
			continue
		}
		up := strings.ToUpper(name)

		if strings.Contains(up, "PURLIN") {
			lv, lu := listedLength(r, up)
			perM := price
			if lv > 0 && lu != "" {
				perM = perMeter(price, lv, lu, "", up)
			}
			if kind := purlinKind(up); kind != "" {
				takeLowest(prices, kind, perM)
			}
			continue
		}

		size := r.first("size_in")
		if size == "" {
			size = SteelSize(up)
		}
		grade := strings.ToLower(r.first("grade"))
		if grade == "" {
			grade = SteelGrade(up)
		}
		lv, lu := listedLength(r, up)
		if lv == 0 || lu == "" {
			lv, lu = 19.0, "ft"
		}
		perM := perMeter(price, lv, lu, size, up)
		if size != "" {
			g := "mild"
			if strings.HasPrefix(grade, "corr") {
				g = "corr"
			}
			key := fmt.Sprintf("rebar_%s_%s_m", g, strings.ReplaceAll(size, "/", "_"))
			takeLowest(prices, key, perM)
		}
	}
	return prices, nil
}

// listedLength pulls an explicit length_value/length_unit column pair,
// falling back to parsing the listing name.
func listedLength(r row, nameUp string) (float64, string) {
	lu := r.first("length_unit")
	lv, _ := strconv.ParseFloat(r.first("length_value"), 64)
	if lv > 0 && lu != "" {
		return lv, lu
	}
	if v, u, ok := ParseLength(nameUp); ok {
		if lv == 0 {
			lv = v
		}
		if lu == "" {
			lu = u
		}
	}
	return lv, lu
}

func purlinKind(up string) string {
	padded := " " + up + " "
	switch {
	case strings.Contains(padded, " Z ") || strings.HasPrefix(up, "Z "):
		return "purlin_z_m"
	case strings.Contains(padded, " C ") || strings.HasPrefix(up, "C "):
		return "purlin_c_m"
	}
	return ""
}

var blockSizeRes = map[string]*regexp.Regexp{
	"4": regexp.MustCompile(`(^|\s)4\s*"?\b`),
	"6": regexp.MustCompile(`(^|\s)6\s*"?\b`),
	"8": regexp.MustCompile(`(^|\s)8\s*"?\b`),
}

// LoadBuilding loads the general building-materials catalog, mapping cement,
// blocks, mesh, tie wire, purlins and paint listings onto catalog keys.
// cementGrade selects which cement listing backs the plain cement_bag key:
// "eco", "premium", "loose" (converted from per-lb), or empty for the
// unmarked listing.
func LoadBuilding(path, cementGrade string) (PriceTable, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	prices := PriceTable{}
	for _, r := range rows {
		name := r.first("name", "Name", "ITEM", "Item", "Item Name")
		price, ok := ParsePrice(r.first("price", "Price", "SELLING", "Selling"))
		if name == "" || !ok {
			continue
		}
		up := strings.ToUpper(name)

		switch {
		case strings.Contains(up, "CEMENT") && !containsAny(up, "BOARD", "ADHESIVE", "THINSET", "CONTACT"):
			switch {
			case strings.Contains(up, "PREMIUM"):
				takeLowest(prices, "cement_bag_premium", price)
			case strings.Contains(up, "ECO"):
				takeLowest(prices, "cement_bag_eco", price)
			case containsAny(up, "LOOSE", " PER LB", "LB"):
				takeLowest(prices, "cement_loose_lb", price)
			default:
				takeLowest(prices, "cement_bag", price)
			}

		case strings.Contains(up, "BLOCK"):
			var size string
			for _, s := range []string{"4", "6", "8"} {
				if blockSizeRes[s].MatchString(up) || strings.Contains(up, s+"X8X16") {
					size = s
				}
			}
			clay := strings.Contains(up, "CLAY") || strings.Contains(up, "RED")
			if size == "" {
				continue
			}
			switch {
			case clay && size == "4":
				takeLowest(prices, "block_clay_4in", price)
			case !clay:
				takeLowest(prices, "block_"+size+"in", price)
			}

		case strings.Contains(up, "MESH") && strings.Contains(up, "A142"):
			takeLowest(prices, "mesh_A142_sheet", price)

		case strings.Contains(up, "TIE WIRE") || strings.Contains(up, "BINDING WIRE"):
			takeLowest(prices, "tie_wire_kg", price)

		case strings.Contains(up, "PURLIN"):
			lv, lu, _ := ParseLength(up)
			perM := price
			if lv > 0 && lu != "" {
				perM = perMeter(price, lv, lu, "", up)
			}
			if kind := purlinKind(up); kind != "" {
				takeLowest(prices, kind, perM)
			}

		case containsAny(up, "PAINT", "EMULSION") && strings.Contains(up, "GAL"):
			takeLowest(prices, "paint_gal", price)
		}
	}

	applyCementGrade(prices, cementGrade)
	return prices, nil
}

// applyCementGrade overrides the plain cement_bag key with the configured
// grade's listing. Loose cement converts per-lb price to a 42.5 kg bag.
func applyCementGrade(prices PriceTable, grade string) {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "eco":
		if v, ok := prices["cement_bag_eco"]; ok {
			prices["cement_bag"] = v
		}
	case "premium":
		if v, ok := prices["cement_bag_premium"]; ok {
			prices["cement_bag"] = v
		}
	case "loose":
		if v, ok := prices["cement_loose_lb"]; ok {
			bagLbs := 42.5 * 2.20462
			prices["cement_bag"] = math.Round(bagLbs*v*100) / 100
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Merge merges price tables, keeping the lowest price for duplicate keys.
func Merge(tables ...PriceTable) PriceTable {
	out := PriceTable{}
	for _, t := range tables {
		for k, v := range t {
			takeLowest(out, k, v)
		}
	}
	return out
}

// Load builds the full catalog from the configured CSV files. Load failures
// are recorded on the catalog rather than returned; the server starts and
// pricing endpoints report the error.
func Load(cfg config.PricingConfig) *Catalog {
	log := logger.GetLogger()

	agg, err := LoadAggregates(filepath.Join(cfg.DataDir, cfg.AggregatesCSV))
	if err != nil {
		return &Catalog{Prices: PriceTable{}, Err: err}
	}
	steel, err := LoadSteel(filepath.Join(cfg.DataDir, cfg.SteelCSV))
	if err != nil {
		return &Catalog{Prices: PriceTable{}, Err: err}
	}
	building, err := LoadBuilding(filepath.Join(cfg.DataDir, cfg.BuildingCSV), cfg.CementGrade)
	if err != nil {
		return &Catalog{Prices: PriceTable{}, Err: err}
	}

	prices := Merge(agg, steel, building)
	log.Infow("Price catalog loaded",
		"aggregate_keys", len(agg),
		"steel_keys", len(steel),
		"building_keys", len(building),
		"total_keys", len(prices),
	)
	return &Catalog{Prices: prices}
}
