package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/models"
)

// ImportProductsFromExcel bulk-creates products from an uploaded .xlsx with
// the same column layout the export produces (ID column ignored). Unknown
// categories are created on the fly so a full export round-trips.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
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

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		imported, skipped := 0, 0

		err = db.Transaction(func(tx *gorm.DB) error {
			for i := 1; i < sheet.MaxRow; i++ {
				row := sheet.Rows[i]

				get := func(index int) string {
					if index < len(row.Cells) {
						return strings.TrimSpace(row.Cells[index].String())
					}
					return ""
				}

				name := get(1)
				price, priceErr := strconv.ParseFloat(get(3), 64)
				if name == "" || priceErr != nil || price <= 0 {
					skipped++
					continue
				}

				originalPrice, _ := strconv.ParseFloat(get(4), 64)
				categoryName := get(5)
				stock, _ := strconv.Atoi(get(6))
				if stock < 0 {
					stock = 0
				}
				isActive := strings.EqualFold(get(7), "true")

				if categoryName != "" {
					category := models.Category{Name: categoryName}
					if err := tx.Where("name = ?", categoryName).FirstOrCreate(&category).Error; err != nil {
						return err
					}
				}

				var images []models.ProductImage
				for pos, url := range strings.Split(get(8), ",") {
					if url = strings.TrimSpace(url); url != "" {
						images = append(images, models.ProductImage{URL: url, Position: pos})
					}
				}

				product := models.Product{
					Name:          name,
					Description:   get(2),
					Price:         price,
					OriginalPrice: originalPrice,
					Category:      categoryName,
					Images:        images,
					Stock:         stock,
					IsActive:      isActive,
				}
				if err := tx.Create(&product).Error; err != nil {
					return err
				}
				imported++
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed, no products were created"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
	}
}
