package adminController

import (
	"net/http"
	"sort"

	"github.com/HarrisYahya/vitmii/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DailyRevenue struct {
	Date    string  `json:"date"` // calendar day of creation, YYYY-MM-DD
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// revenueByDate groups orders by calendar day of creation and sums totals,
// oldest day first.
func revenueByDate(orders []models.Order) []DailyRevenue {
	byDate := make(map[string]*DailyRevenue)
	for _, o := range orders {
		date := o.CreatedAt.Format("2006-01-02")
		d, ok := byDate[date]
		if !ok {
			d = &DailyRevenue{Date: date}
			byDate[date] = d
		}
		d.Revenue += o.TotalPrice
		d.Orders++
	}

	days := make([]DailyRevenue, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// RevenueStatsHandler powers the dashboard revenue view: per-day series plus
// the headline totals.
func RevenueStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		var totalRevenue float64
		for _, o := range orders {
			totalRevenue += o.TotalPrice
		}

		avg := 0.0
		if len(orders) > 0 {
			avg = totalRevenue / float64(len(orders))
		}

		c.JSON(http.StatusOK, gin.H{
			"total_revenue":   totalRevenue,
			"total_orders":    len(orders),
			"avg_order_value": avg,
			"by_date":         revenueByDate(orders),
		})
	}
}
