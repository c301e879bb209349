package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ikkim/variant-reservation/config"
	"github.com/ikkim/variant-reservation/internal/app/model"
	"github.com/ikkim/variant-reservation/internal/app/repository"
	"github.com/ikkim/variant-reservation/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 컬럼 순서: 상품명, 가격, 사이즈, 색상, 색상코드, 재고, 판매여부
const minColumns = 6

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type variantRow struct {
	ProductName string
	Price       decimal.Decimal
	Size        string
	Color       string
	ColorHex    string
	Stock       int
	Active      bool
}

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readRowsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	parsed, skipped := parseVariantRows(rows)
	fmt.Printf("Total variants to import: %d (skipped %d)\n", len(parsed), skipped)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()
	variants, err := attachProducts(ctx, productRepo, parsed)
	if err != nil {
		log.Fatal("Failed to prepare products:", err)
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := variantRepo.BulkCreate(ctx, variants, batchSize); err != nil {
		log.Fatal("Failed to bulk create variants:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total variants imported: %d\n", len(variants))
}

func readRowsFromXLSX(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}
	return rows, nil
}

// parseVariantRows skips the header row and any row missing a product name,
// size, color or a valid stock count.
func parseVariantRows(rows [][]string) ([]variantRow, int) {
	var parsed []variantRow
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < minColumns {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		size := strings.TrimSpace(row[2])
		color := strings.TrimSpace(row[3])
		if name == "" || size == "" || color == "" {
			skipped++
			continue
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[1]), ",", ""))
		if err != nil || price.IsNegative() {
			skipped++
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row[5]))
		if err != nil || stock < 0 {
			skipped++
			continue
		}

		hex := strings.TrimSpace(row[4])
		if hex != "" && !hexPattern.MatchString(hex) {
			hex = ""
		}

		active := true
		if len(row) > 6 {
			active = parseActive(row[6])
		}

		parsed = append(parsed, variantRow{
			ProductName: name,
			Price:       price,
			Size:        size,
			Color:       color,
			ColorHex:    hex,
			Stock:       stock,
			Active:      active,
		})
	}
	return parsed, skipped
}

func parseActive(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "no", "false", "0", "off", "판매중지":
		return false
	}
	return true
}

// attachProducts finds or creates the product of every row and returns the
// variant models ready to insert.
func attachProducts(ctx context.Context, productRepo repository.ProductRepository, rows []variantRow) ([]model.Variant, error) {
	productIDs := make(map[string]uint)
	variants := make([]model.Variant, 0, len(rows))

	for _, row := range rows {
		id, ok := productIDs[row.ProductName]
		if !ok {
			product, err := productRepo.FindByName(ctx, row.ProductName)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				product = &model.Product{Name: row.ProductName, Price: row.Price}
				err = productRepo.Create(ctx, product)
			}
			if err != nil {
				return nil, fmt.Errorf("product %q: %w", row.ProductName, err)
			}
			id = product.ID
			productIDs[row.ProductName] = id
		}

		variants = append(variants, model.Variant{
			ProductID: id,
			Size:      row.Size,
			Color:     row.Color,
			ColorHex:  row.ColorHex,
			Stock:     row.Stock,
			Active:    row.Active,
		})
	}
	return variants, nil
}
