package adminController

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HarrisYahya/vitmii/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const heroUploadDir = "/var/www/vitmii/uploads/hero"

type ReorderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// UploadHeroImage saves the slide locally and appends it to the end of the
// slider (position after the current last slide).
func UploadHeroImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, fileHeader, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}
		defer file.Close()

		if err := os.MkdirAll(heroUploadDir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload folder"})
			return
		}

		ext := filepath.Ext(fileHeader.Filename)
		base := strings.TrimSuffix(filepath.Base(fileHeader.Filename), ext)
		base = strings.ReplaceAll(base, " ", "_")
		newFileName := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)
		savePath := filepath.Join(heroUploadDir, newFileName)

		if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		next, err := nextHeroPosition(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		hero := models.HeroImage{
			Image:    fmt.Sprintf("/uploads/hero/%s", newFileName),
			Position: next,
		}
		if err := db.Create(&hero).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB save failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Hero image uploaded", "data": hero})
	}
}

// nextHeroPosition is MAX(position)+1, not a row count: deletes leave gaps
// and a count would collide with a surviving position.
func nextHeroPosition(db *gorm.DB) (int, error) {
	var next int
	err := db.Model(&models.HeroImage{}).
		Select("COALESCE(MAX(position) + 1, 0)").Scan(&next).Error
	return next, err
}

// GetHeroImages lists slides in display order.
func GetHeroImages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var heroes []models.HeroImage
		if err := db.Order("position ASC, created_at ASC").Find(&heroes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get hero images"})
			return
		}
		c.JSON(http.StatusOK, heroes)
	}
}

// DeleteHeroImage removes both the DB record and the local file.
func DeleteHeroImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var hero models.HeroImage

		if err := db.First(&hero, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Hero image not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if strings.HasPrefix(hero.Image, "/uploads/") {
			localPath := filepath.Join("/var/www/vitmii", hero.Image)
			if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
				return
			}
		}

		if err := db.Delete(&hero).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete from database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Hero image deleted"})
	}
}

// validateReorder checks that the submitted ids are exactly the stored set,
// no more, no less, no duplicates.
func validateReorder(existing, submitted []uint) error {
	if len(existing) != len(submitted) {
		return fmt.Errorf("expected %d ids, got %d", len(existing), len(submitted))
	}
	seen := make(map[uint]bool, len(existing))
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range submitted {
		if !seen[id] {
			return fmt.Errorf("unknown or duplicate hero image id %d", id)
		}
		delete(seen, id)
	}
	return nil
}

// ReorderHeroImages rewrites every slide's position to its index in the
// submitted order. Full rewrite on every move; n is a handful of slides.
func ReorderHeroImages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
			return
		}

		var existing []uint
		if err := db.Model(&models.HeroImage{}).Pluck("id", &existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := validateReorder(existing, req.IDs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for i, id := range req.IDs {
				if err := tx.Model(&models.HeroImage{}).Where("id = ?", id).
					Update("position", i).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder hero images"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Hero images reordered"})
	}
}
