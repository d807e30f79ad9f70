// Operational status endpoint: serves the latest run's counters for
// the dashboard.

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"go-jobscout/internal/status"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "JobScout status API is running!",
			"status":  "healthy",
		})
	})

	r.GET("/status", func(c *gin.Context) {
		snap, err := loadSnapshot()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no status snapshot available yet"})
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadSnapshot() (*status.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join("logs", "status.json"))
	if err != nil {
		return nil, err
	}
	var snap status.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
