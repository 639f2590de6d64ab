package seeder

import (
	"context"
	"strings"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type catalogEntry struct {
	name     string
	category string
	price    float64
	cost     float64
	stock    int
	minStock int
}

// catalog is the fixed product assortment every environment starts from
var catalog = []catalogEntry{
	{"Smartphone X200", models.CategoryDevice, 899.90, 540.00, 40, 8},
	{"Tablet A10", models.CategoryDevice, 449.90, 270.00, 35, 6},
	{"Notebook Pro 15", models.CategoryDevice, 1599.00, 980.00, 20, 4},
	{"Smartwatch Fit 2", models.CategoryDevice, 199.90, 110.00, 60, 10},
	{"E-Reader Touch", models.CategoryDevice, 139.90, 80.00, 45, 8},
	{"Action Camera 4K", models.CategoryDevice, 329.90, 190.00, 25, 5},

	{"Graphics Card RX 7600", models.CategoryHardware, 389.90, 250.00, 18, 4},
	{"Processor Ryzen 7 5700X", models.CategoryHardware, 249.90, 160.00, 30, 6},
	{"SSD NVMe 1TB", models.CategoryHardware, 109.90, 62.00, 70, 12},
	{"RAM DDR4 16GB", models.CategoryHardware, 54.90, 30.00, 80, 15},
	{"Motherboard B550", models.CategoryHardware, 149.90, 90.00, 25, 5},
	{"Power Supply 650W", models.CategoryHardware, 89.90, 52.00, 40, 8},
	{"CPU Cooler Tower", models.CategoryHardware, 45.90, 24.00, 55, 10},
	{"HDD 2TB", models.CategoryHardware, 69.90, 40.00, 50, 10},

	{"Mechanical Keyboard", models.CategoryPeripheral, 89.90, 48.00, 65, 12},
	{"Wireless Mouse", models.CategoryPeripheral, 39.90, 20.00, 90, 15},
	{"Gaming Headset", models.CategoryPeripheral, 79.90, 42.00, 55, 10},
	{"Monitor 27 QHD", models.CategoryPeripheral, 299.90, 185.00, 22, 5},
	{"Webcam Full HD", models.CategoryPeripheral, 59.90, 32.00, 48, 8},
	{"Laser Printer", models.CategoryPeripheral, 219.90, 135.00, 15, 3},
	{"USB Microphone", models.CategoryPeripheral, 69.90, 38.00, 38, 6},
	{"Gamepad Pro", models.CategoryPeripheral, 49.90, 26.00, 60, 10},
}

var deviceColors = []string{"black", "silver", "graphite", "blue", "white"}
var peripheralColors = []string{"black", "white", "gray", "red"}
var connections = []string{"USB", "USB-C", "Bluetooth", "Wireless 2.4GHz", "3.5mm jack"}

var deviceDimensions = map[string]string{
	"smartphone": "160x75x8 mm",
	"tablet":     "250x160x7 mm",
	"notebook":   "360x240x18 mm",
	"smartwatch": "45x38x11 mm",
	"e-reader":   "170x120x8 mm",
	"camera":     "65x45x30 mm",
}

var hardwarePower = map[string]int{
	"gpu":          165,
	"cpu":          65,
	"ssd":          8,
	"ram":          3,
	"motherboard":  45,
	"power_supply": 650,
	"cooler":       5,
	"hdd":          10,
}

var hardwareSpecs = map[string]string{
	"gpu":          "8GB GDDR6",
	"cpu":          "8 cores / 16 threads",
	"ssd":          "PCIe 4.0, 5000 MB/s",
	"ram":          "3200 MHz CL16",
	"motherboard":  "AM4, ATX",
	"power_supply": "80 Plus Bronze",
	"cooler":       "4 heatpipes",
	"hdd":          "7200 RPM SATA III",
}

// nameKeyword maps a keyword found in the product name to its type tag
var nameKeywords = []struct {
	keyword string
	typeTag string
}{
	{"smartphone", "smartphone"},
	{"tablet", "tablet"},
	{"notebook", "notebook"},
	{"smartwatch", "smartwatch"},
	{"e-reader", "e-reader"},
	{"camera", "camera"},
	{"graphics card", "gpu"},
	{"processor", "cpu"},
	{"ssd", "ssd"},
	{"ram", "ram"},
	{"motherboard", "motherboard"},
	{"power supply", "power_supply"},
	{"cooler", "cooler"},
	{"hdd", "hdd"},
	{"keyboard", "keyboard"},
	{"mouse", "mouse"},
	{"headset", "headset"},
	{"monitor", "monitor"},
	{"webcam", "webcam"},
	{"printer", "printer"},
	{"microphone", "microphone"},
	{"gamepad", "gamepad"},
}

func typeFromName(name string) string {
	lower := strings.ToLower(name)
	for _, nk := range nameKeywords {
		if strings.Contains(lower, nk.keyword) {
			return nk.typeTag
		}
	}
	return "other"
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	count, err := s.store.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Products already present, skipping catalog", zap.Int("count", count))
		return nil
	}

	for _, entry := range catalog {
		p := &models.Product{
			Name:      entry.name,
			Category:  entry.category,
			UnitPrice: decimal.NewFromFloat(entry.price),
			UnitCost:  decimal.NewFromFloat(entry.cost),
			Stock:     entry.stock,
			MinStock:  entry.minStock,
		}
		if err := s.store.InsertProduct(ctx, p); err != nil {
			return err
		}
	}

	s.countRows("products", len(catalog))
	return nil
}

func (s *Seeder) seedDevices(ctx context.Context) error {
	missing, err := s.store.ProductsMissingSubRecord(ctx, models.CategoryDevice)
	if err != nil {
		return err
	}

	for _, p := range missing {
		typeTag := typeFromName(p.Name)
		dims, ok := deviceDimensions[typeTag]
		if !ok {
			dims = "n/a"
		}

		d := &models.Device{
			ProductID:  p.ID,
			Color:      deviceColors[int(p.ID)%len(deviceColors)],
			Dimensions: dims,
			Type:       typeTag,
		}
		if err := s.store.InsertDevice(ctx, d); err != nil {
			return err
		}
	}

	s.countRows("devices", len(missing))
	return nil
}

func (s *Seeder) seedHardware(ctx context.Context) error {
	missing, err := s.store.ProductsMissingSubRecord(ctx, models.CategoryHardware)
	if err != nil {
		return err
	}

	for _, p := range missing {
		typeTag := typeFromName(p.Name)
		spec, ok := hardwareSpecs[typeTag]
		if !ok {
			spec = "n/a"
		}

		h := &models.Hardware{
			ProductID: p.ID,
			PowerDraw: hardwarePower[typeTag],
			TechSpec:  spec,
			Type:      typeTag,
		}
		if err := s.store.InsertHardware(ctx, h); err != nil {
			return err
		}
	}

	s.countRows("hardware", len(missing))
	return nil
}

func (s *Seeder) seedPeripherals(ctx context.Context) error {
	missing, err := s.store.ProductsMissingSubRecord(ctx, models.CategoryPeripheral)
	if err != nil {
		return err
	}

	for _, p := range missing {
		per := &models.Peripheral{
			ProductID:  p.ID,
			Color:      peripheralColors[int(p.ID)%len(peripheralColors)],
			Connection: connections[int(p.ID)%len(connections)],
			Type:       typeFromName(p.Name),
		}
		if err := s.store.InsertPeripheral(ctx, per); err != nil {
			return err
		}
	}

	s.countRows("peripherals", len(missing))
	return nil
}
