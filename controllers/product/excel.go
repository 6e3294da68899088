package productcontroller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/HarrisYahya/vitmii/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ImportProductsFromExcel bulk-creates products from an uploaded spreadsheet.
// Expected columns: Name, Price, Unit, Category, Image (header row required).
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		var products []models.Product
		var skipped []string

		cell := func(row *xlsx.Row, i int) string {
			if i >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[i].Value)
		}

		for i, row := range sheet.Rows[1:] {
			name := cell(row, 0)
			priceStr := cell(row, 1)
			unit := cell(row, 2)

			if name == "" && priceStr == "" {
				continue // blank row
			}
			price, err := strconv.ParseFloat(priceStr, 64)
			if name == "" || unit == "" || err != nil || price < 0 {
				skipped = append(skipped, fmt.Sprintf("row %d", i+2))
				continue
			}

			products = append(products, models.Product{
				Name:     name,
				Price:    price,
				Unit:     unit,
				Category: cell(row, 3),
				Image:    cell(row, 4),
			})
		}

		if len(products) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid product rows found", "skipped": skipped})
			return
		}

		if err := db.Create(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Products imported",
			"imported": len(products),
			"skipped":  skipped,
		})
	}
}
